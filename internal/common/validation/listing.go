// internal/common/validation/listing.go
package validation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"shopping-assistant/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/listing.json
var listingSchemaJSON []byte

// Result separates hard schema violations from advisory warnings.
type Result struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Valid reports whether there are no errors. Warnings do not count.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// ListingValidator checks listing documents against the embedded JSON schema.
type ListingValidator struct {
	single *gojsonschema.Schema
	list   *gojsonschema.Schema
}

// NewListingValidator compiles the listing schema and its array form.
func NewListingValidator() (*ListingValidator, error) {
	var listingSchema map[string]interface{}
	if err := json.Unmarshal(listingSchemaJSON, &listingSchema); err != nil {
		return nil, fmt.Errorf("decode listing schema: %w", err)
	}

	single, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(listingSchema))
	if err != nil {
		return nil, fmt.Errorf("compile listing schema: %w", err)
	}

	itemSchema := make(map[string]interface{}, len(listingSchema))
	for k, v := range listingSchema {
		if k == "$schema" {
			continue
		}
		itemSchema[k] = v
	}
	list, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]interface{}{
		"type":  "array",
		"items": itemSchema,
	}))
	if err != nil {
		return nil, fmt.Errorf("compile listing array schema: %w", err)
	}

	return &ListingValidator{single: single, list: list}, nil
}

// ValidateListing validates one listing value.
func (v *ListingValidator) ValidateListing(l models.Listing) (*Result, error) {
	res, err := v.single.Validate(gojsonschema.NewGoLoader(l))
	if err != nil {
		return nil, fmt.Errorf("validate listing: %w", err)
	}

	out := &Result{Errors: describe(res)}
	out.Warnings = listingWarnings("", l)
	return out, nil
}

// ValidateListingsJSON validates a raw JSON array of listings and decodes it
// when the document is valid.
func (v *ListingValidator) ValidateListingsJSON(raw []byte) ([]models.Listing, *Result, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("[]")
	}

	res, err := v.list.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("validate listings: %w", err)
	}

	out := &Result{Errors: describe(res)}
	if !out.Valid() {
		return nil, out, nil
	}

	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, nil, fmt.Errorf("decode listings: %w", err)
	}
	for i, l := range listings {
		out.Warnings = append(out.Warnings, listingWarnings(fmt.Sprintf("%d.", i), l)...)
	}
	return listings, out, nil
}

// ValidateDocument checks an arbitrary document against a schema given as a map.
// An empty schema accepts everything.
func ValidateDocument(schema map[string]interface{}, document interface{}) ([]string, error) {
	if len(schema) == 0 {
		return nil, nil
	}

	res, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return describe(res), nil
}

func describe(res *gojsonschema.Result) []string {
	if res.Valid() {
		return nil
	}
	errs := make([]string, len(res.Errors()))
	for i, desc := range res.Errors() {
		errs[i] = desc.String()
	}
	return errs
}

func knownCondition(c string) bool {
	for _, known := range models.Conditions {
		if strings.EqualFold(c, string(known)) {
			return true
		}
	}
	return false
}

// listingWarnings flags values the ranker tolerates but that usually mean bad data.
func listingWarnings(prefix string, l models.Listing) []string {
	var warnings []string
	if l.SellerRating < 0 || l.SellerRating > 5 {
		warnings = append(warnings, fmt.Sprintf("%sseller_rating: %.2f is outside 0-5", prefix, l.SellerRating))
	}
	if l.Condition != "" && !knownCondition(l.Condition) {
		warnings = append(warnings, fmt.Sprintf("%scondition: %q is not a known condition", prefix, l.Condition))
	}
	return warnings
}
