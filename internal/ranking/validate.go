package ranking

import (
	"errors"
	"fmt"
	"strings"

	"shopping-assistant/internal/models"
)

var (
	ErrMissingName  = errors.New("listing name is required")
	ErrInvalidPrice = errors.New("listing price must be non-negative")
)

// ListingError reports the entry that could not be scored.
type ListingError struct {
	Index int
	ID    string
	Err   error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %d (id=%q): %v", e.Index, e.ID, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Validate checks the fields the scoring functions depend on.
func Validate(l models.Listing) error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrMissingName
	}
	if l.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateAll returns the joined errors of every invalid listing, or nil.
func ValidateAll(listings []models.Listing) error {
	var errs []error
	for i, l := range listings {
		if err := Validate(l); err != nil {
			errs = append(errs, &ListingError{Index: i, ID: l.ID, Err: err})
		}
	}
	return errors.Join(errs...)
}
