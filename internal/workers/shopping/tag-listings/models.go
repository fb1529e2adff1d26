// internal/workers/shopping/tag-listings/models.go
package taglistings

type Input struct {
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	Tagged  int `json:"tagged"`
	Scanned int `json:"scanned"`
}
