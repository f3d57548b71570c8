// Package match finds the keywords of a scope index contained in a message.
package match

import (
	"sort"
	"strings"

	"github.com/rcliao/qa-keywords/internal/model"
)

// Hit is a keyword found in a message along with its resolved values.
type Hit struct {
	Keyword string                `json:"keyword"`
	Values  []model.ResolvedValue `json:"values"`
}

// Texts returns the content of the TEXT values of the hit, in order.
func (h Hit) Texts() []string {
	var out []string
	for _, v := range h.Values {
		if v.Type == model.ValueText {
			out = append(out, v.Content)
		}
	}
	return out
}

// Match returns a hit for every keyword of idx that occurs in text.
// Longer keywords come first; equal lengths are ordered lexically.
func Match(text string, idx model.ScopeIndex) []Hit {
	hits := []Hit{}
	if text == "" {
		return hits
	}
	for kw, values := range idx {
		if kw == "" || !strings.Contains(text, kw) {
			continue
		}
		hits = append(hits, Hit{Keyword: kw, Values: values})
	}
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i].Keyword, hits[j].Keyword
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return hits
}
