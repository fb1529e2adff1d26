package ranking

import (
	"strings"

	"shopping-assistant/internal/models"
)

type wordSet map[string]struct{}

func nameWords(name string) wordSet {
	fields := strings.Fields(strings.ToLower(name))
	set := make(wordSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func overlap(a, b wordSet) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

// NameOverlap returns |shared words| / max(|words a|, |words b|) over the
// lowercase, whitespace-tokenized names.
func NameOverlap(a, b string) float64 {
	return overlap(nameWords(a), nameWords(b))
}

// Deduplicate keeps the first listing of every group of near-identical names.
// A listing is dropped when its overlap with any kept name exceeds
// DuplicateThreshold. Order is preserved.
func Deduplicate(items []models.ScoredListing) []models.ScoredListing {
	kept := make([]models.ScoredListing, 0, len(items))
	seen := make([]wordSet, 0, len(items))

	for _, item := range items {
		words := nameWords(item.Name)

		duplicate := false
		for _, s := range seen {
			if overlap(words, s) > DuplicateThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		kept = append(kept, item)
		seen = append(seen, words)
	}

	return kept
}
