// internal/textutil/text.go
package textutil

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"shopping-assistant/internal/models"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	controlRe    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	wordRe       = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	rangeRe = regexp.MustCompile(`(\d[\d,]*)\s*[-~〜]\s*(\d[\d,]*)`)
	underRe = regexp.MustCompile(`(?i)(?:under|less than|below)\s*¥?\s*(\d[\d,]*)`)
	overRe  = regexp.MustCompile(`(?i)(?:over|more than|above)\s*¥?\s*(\d[\d,]*)`)
)

// japaneseRatio is the share of Japanese runes above which text counts as Japanese.
const japaneseRatio = 0.3

// DetectLanguage returns "ja" or "en".
func DetectLanguage(text string) string {
	var total, japanese int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isJapanese(r) {
			japanese++
		}
	}
	if total == 0 {
		return models.LanguageEnglish
	}
	if float64(japanese)/float64(total) > japaneseRatio {
		return models.LanguageJapanese
	}
	return models.LanguageEnglish
}

func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK ideographs
		return true
	}
	return false
}

// FormatPrice renders a yen amount with thousands separators.
func FormatPrice(price int) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}
	digits := strconv.Itoa(price)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "¥" + b.String()
}

func CleanQuery(query string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(query, " "))
}

// SanitizeText strips control characters and collapses whitespace.
func SanitizeText(text string) string {
	return CleanQuery(controlRe.ReplaceAllString(text, ""))
}

// ExtractPriceRange pulls a price bound out of free text. The empty range
// is returned when nothing matches.
func ExtractPriceRange(text string) models.PriceRange {
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		lo, okLo := parseAmount(m[1])
		hi, okHi := parseAmount(m[2])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			return models.PriceRange{Min: models.IntPtr(lo), Max: models.IntPtr(hi)}
		}
	}
	if m := underRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return models.PriceRange{Max: models.IntPtr(v)}
		}
	}
	if m := overRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return models.PriceRange{Min: models.IntPtr(v)}
		}
	}
	return models.PriceRange{}
}

func parseAmount(s string) (int, bool) {
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeCondition maps marketplace wording onto the condition vocabulary.
func NormalizeCondition(condition string) string {
	c := strings.ToLower(strings.TrimSpace(condition))
	switch c {
	case "brand new", "unused":
		return string(models.ConditionNew)
	case "like new", "like-new":
		return string(models.ConditionLikeNew)
	case "excellent", "very good", "very-good":
		return string(models.ConditionVeryGood)
	case "fair", "poor":
		return string(models.ConditionAcceptable)
	}
	return c
}

// MapCategory folds display category aliases onto stored category names.
func MapCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "home & kitchen", "home & beauty":
		return "Home & Beauty"
	case "entertainment", "gaming":
		return "Entertainment"
	}
	return category
}

// ExtractSearchTerms collects the distinct lowercase terms a store search
// should match, in first-seen order.
func ExtractSearchTerms(query string, prefs *models.Preferences) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(term string) {
		term = strings.ToLower(SanitizeText(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, w := range wordRe.FindAllString(strings.ToLower(SanitizeText(query)), -1) {
		add(w)
	}
	if prefs != nil {
		for _, k := range prefs.Keywords {
			add(k)
		}
		if brand, ok := prefs.BrandValue(); ok {
			add(brand)
		}
		if category, ok := prefs.CategoryValue(); ok {
			add(category)
		}
	}
	return terms
}

var tagRules = []struct {
	keyword string
	tags    []string
}{
	{"iphone", []string{"apple", "smartphone", "ios"}},
	{"android", []string{"android", "smartphone"}},
	{"switch", []string{"gaming", "nintendo"}},
	{"macbook", []string{"laptop", "apple"}},
	{"バッグ", []string{"fashion", "bag"}},
	{"イヤホン", []string{"audio", "earbuds"}},
}

// SEOTags derives sorted, distinct tags from a listing title.
func SEOTags(title string) []string {
	lower := strings.ToLower(title)
	set := make(map[string]struct{})
	for _, rule := range tagRules {
		if strings.Contains(lower, rule.keyword) {
			for _, tag := range rule.tags {
				set[tag] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
