package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

// Provider is a named Searcher.
type Provider struct {
	Name     string
	Searcher Searcher
}

// Multi fans a query out to several providers and merges the results.
type Multi struct {
	Providers []Provider
}

// Search queries every provider selected by q.Sites concurrently.
// q.MaxResults bounds each provider, not the merged set, so a full page
// from one provider does not hide the others.
// Failed providers are reported in the returned error; the error is a
// full failure only if no provider returned postings.
func (m *Multi) Search(ctx context.Context, q Query) ([]Posting, error) {
	selected := m.selected(q.Sites)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no job providers enabled (requested: %s)", strings.Join(q.Sites, ", "))
	}

	results := make([][]Posting, len(selected))
	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	for i, p := range selected {
		g.Go(func() error {
			postings, err := p.Searcher.Search(ctx, q)
			results[i] = postings
			if err != nil {
				slog.Warn("job provider failed", slog.String("provider", p.Name), slog.Any("error", err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var merged []Posting
	for _, r := range results {
		merged = append(merged, r...)
	}
	return dedupPostings(merged), errors.Join(errs...)
}

func (m *Multi) selected(sites []string) []Provider {
	if len(sites) == 0 {
		return m.Providers
	}
	var out []Provider
	for _, p := range m.Providers {
		for _, s := range sites {
			if strings.EqualFold(strings.TrimSpace(s), p.Name) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Details delegates to the first provider that can fetch details.
func (m *Multi) Details(ctx context.Context, postingURL string) (string, error) {
	for _, p := range m.Providers {
		if df, ok := p.Searcher.(DetailFetcher); ok && strings.Contains(postingURL, p.Name) {
			return df.Details(ctx, postingURL)
		}
	}
	return "", fmt.Errorf("no detail provider for %s", postingURL)
}

// dedupPostings drops repeated URLs, then repeated title/company pairs.
func dedupPostings(in []Posting) []Posting {
	seenURL := make(map[string]bool, len(in))
	seenKey := make(map[string]bool, len(in))
	out := make([]Posting, 0, len(in))
	for _, p := range in {
		if p.URL != "" {
			if seenURL[p.URL] {
				continue
			}
			seenURL[p.URL] = true
		}
		if p.Title != "" || p.Company != "" {
			key := engine.CanonicalJobKey(p.Title, p.Company)
			if seenKey[key] {
				continue
			}
			seenKey[key] = true
		}
		out = append(out, p)
	}
	return out
}

// Cached stores complete search results in the engine cache.
// Partial results (postings with an error) are not cached.
type Cached struct {
	Next Searcher
}

func (c *Cached) Search(ctx context.Context, q Query) ([]Posting, error) {
	key := engine.CacheKey("search", q.Term, q.Location,
		strconv.Itoa(q.RecencyHours), strconv.Itoa(q.DistanceKm), strconv.Itoa(q.MaxResults),
		strings.ToLower(strings.Join(q.Sites, ",")))
	if postings, ok := engine.CacheLoadJSON[[]Posting](ctx, key); ok {
		return postings, nil
	}
	postings, err := c.Next.Search(ctx, q)
	if err == nil {
		engine.CacheStoreJSON(ctx, key, postings)
	}
	return postings, err
}

// Details passes through to the wrapped searcher when it can fetch details.
func (c *Cached) Details(ctx context.Context, postingURL string) (string, error) {
	if df, ok := c.Next.(DetailFetcher); ok {
		return df.Details(ctx, postingURL)
	}
	return "", fmt.Errorf("no detail provider for %s", postingURL)
}

// NewSearcher builds the cached multi-provider searcher for the configured sites.
func NewSearcher(cfg *engine.Config) (*Cached, error) {
	sites := cfg.Sites
	if len(sites) == 0 {
		sites = []string{"linkedin", "remotive"}
	}
	m := &Multi{}
	for _, s := range sites {
		switch name := strings.ToLower(strings.TrimSpace(s)); name {
		case "linkedin":
			m.Providers = append(m.Providers, Provider{Name: name, Searcher: NewLinkedIn(cfg.LinkedInRPS, cfg.BrowserClient)})
		case "remotive":
			m.Providers = append(m.Providers, Provider{Name: name, Searcher: NewRemotive()})
		case "":
		default:
			return nil, fmt.Errorf("unknown job site %q (available: linkedin, remotive)", s)
		}
	}
	return &Cached{Next: m}, nil
}
