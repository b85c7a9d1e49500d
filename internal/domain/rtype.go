package domain

import "strings"

// canonicalTypes is the closed set of restaurant type tags the corpus
// pipeline emits. Desired-type matching only ever compares against these.
var canonicalTypes = map[string]struct{}{
	"restaurant":               {},
	"italian_restaurant":       {},
	"american_restaurant":      {},
	"mexican_restaurant":       {},
	"pizza_restaurant":         {},
	"chinese_restaurant":       {},
	"japanese_restaurant":      {},
	"thai_restaurant":          {},
	"seafood_restaurant":       {},
	"greek_restaurant":         {},
	"french_restaurant":        {},
	"mediterranean_restaurant": {},
	"indian_restaurant":        {},
	"hamburger_restaurant":     {},
	"korean_restaurant":        {},
	"steak_house":              {},
	"cafe":                     {},
	"bar":                      {},
	"diner":                    {},
	"bar_and_grill":            {},
	"deli":                     {},
}

// typeAliases maps common free-form spellings (intent extractor output,
// user input) onto canonical tags.
var typeAliases = map[string]string{
	"steakhouse":  "steak_house",
	"steak house": "steak_house",
	"steak":       "steak_house",
	"pizza":       "pizza_restaurant",
	"pizzeria":    "pizza_restaurant",
	"burger":      "hamburger_restaurant",
	"hamburger":   "hamburger_restaurant",
	"coffee":      "cafe",
	"cafe":        "cafe",
	"bar":         "bar",
	"korean food": "korean_restaurant",
	"korean":      "korean_restaurant",
	"japanese":    "japanese_restaurant",
	"chinese":     "chinese_restaurant",
	"thai":        "thai_restaurant",
}

// IsCanonicalType reports whether t is a canonical restaurant type tag.
func IsCanonicalType(t string) bool {
	_, ok := canonicalTypes[t]
	return ok
}

// NormalizeTypes maps free-form type names onto canonical tags.
// Per token: alias lookup, then exact canonical match, then a
// "_restaurant" suffix completion ("korean" already aliases, "greek" does
// not and completes to greek_restaurant). Tokens that resolve to nothing
// canonical are dropped. Duplicates collapse, first occurrence wins.
func NormalizeTypes(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	var normed []string
	seen := make(map[string]struct{})
	appendOnce := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		normed = append(normed, t)
	}

	for _, t := range raw {
		low := strings.ToLower(strings.TrimSpace(t))
		if low == "" {
			continue
		}
		if canon, ok := typeAliases[low]; ok {
			appendOnce(canon)
			continue
		}
		if IsCanonicalType(low) {
			appendOnce(low)
			continue
		}
		if !strings.HasSuffix(low, "_restaurant") && IsCanonicalType(low+"_restaurant") {
			appendOnce(low + "_restaurant")
		}
	}
	return normed
}
