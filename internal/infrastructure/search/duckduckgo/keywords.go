package duckduckgo

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPainKeywords are the built-in search keyword categories. Each
// category becomes one search query; the category names line up with the
// aspect catalog's vocabulary but are intentionally looser, search recall
// matters more than precision here.
func DefaultPainKeywords() map[string][]string {
	return map[string][]string{
		"frustration":    {"frustrating", "hate", "annoying", "painful"},
		"manual_process": {"spreadsheet", "manual process", "by hand", "copy paste"},
		"seeking_tool":   {"is there a tool", "looking for software", "any app for", "alternative to"},
		"cost":           {"too expensive", "overpriced", "pricing"},
	}
}

// CategoryQuery builds a site-restricted query for one keyword category:
// site:reddit.com "<industry>" ("kw1" OR "kw2" ...).
func CategoryQuery(industry string, keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf(`site:reddit.com %q (%s)`, industry, strings.Join(quoted, " OR "))
}

// Pairs returns every two-keyword combination in deterministic order, used
// by the broaden round to split an OR group into narrower queries.
func Pairs(keywords []string) [][2]string {
	sorted := append([]string(nil), keywords...)
	sort.Strings(sorted)

	var out [][2]string
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			out = append(out, [2]string{sorted[i], sorted[j]})
		}
	}
	return out
}
