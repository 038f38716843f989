// Package filter narrows a publication list by free-text search and year.
package filter

import (
	"net/url"
	"strings"

	"github.com/msafzal/scholarsite/internal/scholar"
)

// Query holds the optional filter parameters. Empty fields do not filter.
type Query struct {
	Search string
	Year   string
}

// FromValues reads the "search" and "year" query parameters.
func FromValues(v url.Values) Query {
	return Query{
		Search: v.Get("search"),
		Year:   v.Get("year"),
	}
}

// Apply returns the publications matching q in their original order. The
// input is never modified and the result is never nil.
func Apply(pubs []scholar.Publication, q Query) []scholar.Publication {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]scholar.Publication, 0, len(pubs))
	for _, p := range pubs {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if q.Year != "" && p.Year != q.Year {
			continue
		}
		out = append(out, p)
	}
	return out
}

// term must already be lower case
func matchesTerm(p scholar.Publication, term string) bool {
	for _, field := range []string{p.Title, p.Authors, p.Journal, p.Year} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
