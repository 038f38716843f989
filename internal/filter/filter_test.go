package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msafzal/scholarsite/internal/scholar"
)

func samplePubs() []scholar.Publication {
	return []scholar.Publication{
		{Title: "Wave Energy", Authors: "A, B", Journal: "J1", Year: "2020"},
		{Title: "Coastal Dynamics", Authors: "C", Journal: "J2", Year: "2021"},
	}
}

func titles(pubs []scholar.Publication) []string {
	out := []string{}
	for _, p := range pubs {
		out = append(out, p.Title)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"no filter", Query{}, []string{"Wave Energy", "Coastal Dynamics"}},
		{"search title", Query{Search: "wave"}, []string{"Wave Energy"}},
		{"search is case-insensitive", Query{Search: "WAVE"}, []string{"Wave Energy"}},
		{"search authors", Query{Search: "a, b"}, []string{"Wave Energy"}},
		{"search journal", Query{Search: "j2"}, []string{"Coastal Dynamics"}},
		{"search year", Query{Search: "2021"}, []string{"Coastal Dynamics"}},
		{"search partial year", Query{Search: "202"}, []string{"Wave Energy", "Coastal Dynamics"}},
		{"search no match", Query{Search: "tsunami"}, []string{}},
		{"blank search is no filter", Query{Search: "   "}, []string{"Wave Energy", "Coastal Dynamics"}},
		{"search is trimmed", Query{Search: " coastal "}, []string{"Coastal Dynamics"}},
		{"year", Query{Year: "2021"}, []string{"Coastal Dynamics"}},
		{"year no match", Query{Year: "2099"}, []string{}},
		{"year is exact", Query{Year: "202"}, []string{}},
		{"year is not coerced", Query{Year: "02021"}, []string{}},
		{"search and year both match", Query{Search: "wave", Year: "2020"}, []string{"Wave Energy"}},
		{"search and year match different rows", Query{Search: "wave", Year: "2021"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(samplePubs(), tt.query)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApplyPreservesOrderAndInput(t *testing.T) {
	pubs := []scholar.Publication{
		{Title: "c wave", Year: "2019"},
		{Title: "a", Year: "2020"},
		{Title: "b wave", Year: "2018"},
	}
	input := append([]scholar.Publication(nil), pubs...)

	assert.Equal(t, pubs, Apply(pubs, Query{}))
	assert.Equal(t, []string{"c wave", "b wave"}, titles(Apply(pubs, Query{Search: "wave"})))
	assert.Equal(t, input, pubs, "input must not be modified")
}

func TestApplyEmptyYearField(t *testing.T) {
	pubs := []scholar.Publication{{Title: "Undated"}, {Title: "Dated", Year: "2020"}}
	assert.Equal(t, []string{"Dated"}, titles(Apply(pubs, Query{Year: "2020"})))
	assert.Empty(t, Apply(nil, Query{Search: "x"}))
}

func TestFromValues(t *testing.T) {
	v, _ := url.ParseQuery("search=Wave&year=2020&page=2")
	assert.Equal(t, Query{Search: "Wave", Year: "2020"}, FromValues(v))
	assert.Equal(t, Query{}, FromValues(url.Values{}))
}
