// internal/workers/shopping/translate-query/models.go
package translatequery

type Input struct {
	Query          string `json:"query"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

type Output struct {
	DetectedLanguage string `json:"detectedLanguage"`
	TranslatedQuery  string `json:"translatedQuery"`
	Translated       bool   `json:"translated"`
}
