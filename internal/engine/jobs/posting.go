package jobs

import (
	"context"
	"strings"
)

// Posting is a single job opening returned by a provider.
// Description is optional; providers that only return cards leave it empty.
type Posting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	DatePosted  string `json:"date_posted"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Query is a search request for the job providers.
type Query struct {
	Term         string   `json:"term"`
	Location     string   `json:"location"`
	RecencyHours int      `json:"recency_hours"`
	DistanceKm   int      `json:"distance_km"`
	MaxResults   int      `json:"max_results"`
	Sites        []string `json:"sites,omitempty"` // empty = every configured provider
}

// Alternatives splits an OR-joined term ("Analyste crédit OR Credit Analyst")
// into its individual phrases, for providers without boolean search.
func (q Query) Alternatives() []string {
	var out []string
	for _, p := range strings.Split(q.Term, " OR ") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Searcher is the job provider contract.
// A non-nil error together with postings means a partial result.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Posting, error)
}

// DetailFetcher fetches the full description of a posting by URL.
type DetailFetcher interface {
	Details(ctx context.Context, postingURL string) (string, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, q Query) ([]Posting, error)

func (f SearcherFunc) Search(ctx context.Context, q Query) ([]Posting, error) { return f(ctx, q) }
