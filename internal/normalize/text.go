// Package normalize canonicalizes raw candidate and vacancy fields into comparable units.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// skillAliases maps common skill name variants (already folded) to canonical names
var skillAliases = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"node":       "node.js",
	"nodejs":     "node.js",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"py":         "python",
	"python3":    "python",
	"ms excel":   "excel",
	"aws cloud":  "aws",
	"amazon aws": "aws",
	"c sharp":    "c#",
	"csharp":     "c#",
	"power bi":   "powerbi",
	"ingles":     "english",
	"espanhol":   "spanish",
	"sql server": "sqlserver",
	"ms sql":     "sqlserver",
}

// Fold lower-cases s, strips diacritics and collapses internal whitespace.
// "  São   Paulo " becomes "sao paulo".
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Transformers are stateful, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// Skill normalizes a single skill tag to its canonical folded form.
// Returns "" for blank input.
func Skill(skill string) string {
	folded := Fold(skill)
	if canonical, ok := skillAliases[folded]; ok {
		return canonical
	}
	return folded
}

// Skills normalizes and deduplicates skill tags, returning them sorted
func Skills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	normalized := make([]string, 0, len(skills))

	for _, s := range skills {
		n := Skill(s)
		if n == "" {
			continue
		}
		if _, exists := seen[n]; !exists {
			seen[n] = struct{}{}
			normalized = append(normalized, n)
		}
	}

	sort.Strings(normalized)
	return normalized
}

// Location splits a free-form location into a city token and an optional region token.
// "São Paulo, SP" yields ("sao paulo", "sp"); unmatched strings are kept verbatim as the city.
func Location(location string) (city, region string) {
	folded := Fold(location)
	if folded == "" {
		return "", ""
	}

	for _, sep := range []string{",", " - ", "/"} {
		if idx := strings.LastIndex(folded, sep); idx > 0 {
			city = strings.TrimSpace(folded[:idx])
			region = strings.TrimSpace(folded[idx+len(sep):])
			if city != "" && region != "" {
				return city, region
			}
		}
	}

	return folded, ""
}
