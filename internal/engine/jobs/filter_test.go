package jobs

import (
	"reflect"
	"testing"
)

func TestExcluderExcluded(t *testing.T) {
	e := NewExcluder([]string{"Stage", "alternance", " ", "infirmier"})
	tests := []struct {
		title   string
		keyword string
		want    bool
	}{
		{"Stage - Analyste crédit", "stage", true},
		{"ANALYSTE ESG EN ALTERNANCE", "alternance", true},
		{"Infirmière / Infirmier de nuit", "infirmier", true},
		{"Analyste crédit senior", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			k, ok := e.Excluded(tt.title)
			if ok != tt.want || k != tt.keyword {
				t.Errorf("Excluded(%q) = %q, %v; want %q, %v", tt.title, k, ok, tt.keyword, tt.want)
			}
		})
	}
}

func TestFilterTitles(t *testing.T) {
	in := []Posting{
		{Title: "Analyste LCB-FT", Company: "BNP Paribas", URL: "https://a/1", Description: "desc"},
		{Title: "Stagiaire conformité", Company: "SG", URL: "https://a/2"},
		{Title: "", Company: "Unknown", URL: "https://a/3"},
		{Title: "Credit Analyst (Alternance)", Company: "Natixis", URL: "https://a/4"},
		{Title: "Compliance Officer", Company: "HSBC", URL: "https://a/5"},
	}
	kept, excluded := FilterTitles(in, []string{"stagiaire", "alternance"})

	if excluded != 2 {
		t.Errorf("excluded = %d, want 2", excluded)
	}
	want := []Posting{in[0], in[2], in[4]}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("kept = %+v, want %+v", kept, want)
	}
}

func TestFilterTitlesEmpty(t *testing.T) {
	kept, excluded := FilterTitles(nil, []string{"stage"})
	if kept == nil || len(kept) != 0 || excluded != 0 {
		t.Errorf("FilterTitles(nil) = %v, %d; want empty non-nil, 0", kept, excluded)
	}
}

func TestFilterTitlesNoKeywords(t *testing.T) {
	in := []Posting{{Title: "Stage"}, {Title: "CDI"}}
	kept, excluded := FilterTitles(in, nil)
	if len(kept) != 2 || excluded != 0 {
		t.Errorf("no keywords should keep everything, got %d kept, %d excluded", len(kept), excluded)
	}
}
