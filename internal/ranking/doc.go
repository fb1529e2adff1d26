// Package ranking orders marketplace listings against a shopper's preferences.
//
// Each listing gets four per-criterion scores (relevance, price, condition,
// seller rating) which are blended into a composite score. The final order is
// produced by a chain of stable sorts over explicit preferences, with the
// composite score as the fallback ordering, followed by name-based duplicate
// suppression.
//
// The package performs no I/O and keeps no mutable state, so a Ranker can be
// shared across goroutines.
package ranking
