package scholar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// node wraps one value of a decoded JSON tree. Every accessor returns the
// zero value of its type when the path is missing or has the wrong shape,
// so mapping code never has to check intermediate levels.
type node struct {
	v any
}

func (n node) get(key string) node {
	m, ok := n.v.(map[string]any)
	if !ok {
		return node{}
	}
	return node{v: m[key]}
}

func (n node) has(key string) bool {
	m, ok := n.v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

func (n node) isObject() bool {
	_, ok := n.v.(map[string]any)
	return ok
}

func (n node) str() string {
	switch v := n.v.(type) {
	case string:
		return v
	case float64, int, int64, json.Number:
		return cast.ToString(v)
	default:
		return ""
	}
}

// count coerces numbers and numeric strings; anything else, including
// negative values, is 0.
// count reads a non-negative integer. Strings are decimal only, with
// optional thousands separators as Scholar renders them.
func (n node) count() int {
	var i int
	switch v := n.v.(type) {
	case float64, int, int64, json.Number:
		var err error
		if i, err = cast.ToIntE(v); err != nil {
			return 0
		}
	case string:
		var err error
		if i, err = strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(v), ",", "")); err != nil {
			return 0
		}
	default:
		return 0
	}
	if i < 0 {
		return 0
	}
	return i
}

func (n node) list() []node {
	items, ok := n.v.([]any)
	if !ok {
		return nil
	}
	out := make([]node, len(items))
	for i, item := range items {
		out[i] = node{v: item}
	}
	return out
}

// Decode parses an upstream response body and normalizes it. Bodies that
// are not a JSON object, or that carry an in-band error, are reported as
// ErrUpstreamUnavailable.
func Decode(body []byte) (Dataset, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Dataset{}, fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	root := node{v: raw}
	if !root.isObject() {
		return Dataset{}, fmt.Errorf("%w: response is not an object", ErrUpstreamUnavailable)
	}
	if msg := root.get("error").str(); msg != "" {
		return Dataset{}, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, msg)
	}
	if root.get("search_metadata").get("status").str() == "Error" {
		return Dataset{}, fmt.Errorf("%w: search status Error", ErrUpstreamUnavailable)
	}
	return Normalize(raw.(map[string]any)), nil
}

// Normalize maps a decoded author record into a Dataset. It never fails:
// missing fields take their zero values.
func Normalize(raw map[string]any) Dataset {
	root := node{v: raw}
	author := root.get("author")

	ds := Dataset{
		Profile: Profile{
			Name:        author.get("name").str(),
			Affiliation: author.get("affiliations").str(),
			Contact:     author.get("email").str(),
			Interests:   interests(author.get("interests")),
			Citations:   citations(root.get("cited_by").get("table").list()),
		},
		Publications: []Publication{},
	}

	for _, article := range root.get("articles").list() {
		if !article.isObject() {
			continue
		}
		ds.Publications = append(ds.Publications, Publication{
			Title:     article.get("title").str(),
			Authors:   article.get("authors").str(),
			Journal:   article.get("publication").str(),
			Year:      article.get("year").str(),
			Citations: article.get("cited_by").get("value").count(),
			Link:      article.get("link").str(),
		})
	}
	return ds
}

// interests accepts both plain strings and {"title": ...} rows.
func interests(n node) []string {
	out := []string{}
	for _, item := range n.list() {
		if s, ok := item.v.(string); ok {
			out = append(out, s)
			continue
		}
		if title := item.get("title").str(); title != "" {
			out = append(out, title)
		}
	}
	return out
}

// citations reads the summary table. Total comes from the first row; the
// indices come from the first row that carries them.
func citations(table []node) Citations {
	var c Citations
	if len(table) > 0 {
		c.Total = table[0].get("citations").get("all").count()
	}
	for _, row := range table {
		if row.has("h_index") {
			c.HIndex = row.get("h_index").get("all").count()
			break
		}
	}
	for _, row := range table {
		if row.has("i10_index") {
			c.I10Index = row.get("i10_index").get("all").count()
			break
		}
	}
	return c
}
