package jobs

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

// NoResultsHint is the warning shown when nothing is left to display.
const NoResultsHint = "Aucune offre trouvée correspondant exactement à ces critères. Essayez d'élargir le rayon ou le nombre de jours."

// Result is a filtered search outcome ready for display.
// Postings is never nil.
type Result struct {
	Query    Query     `json:"query"`
	Postings []Posting `json:"postings"`
	Total    int       `json:"total"`
	Excluded int       `json:"excluded"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Search runs the searcher and applies the title exclusions.
// Provider failures never propagate: a failed search yields an empty result
// with a warning, a partial one keeps its postings and adds a warning.
func Search(ctx context.Context, s Searcher, q Query, exclusions []string) Result {
	engine.IncrSearchRequests()

	res := Result{Query: q, Postings: []Posting{}}
	var postings []Posting
	err := engine.TrackOperation(ctx, "job_search", func(ctx context.Context) error {
		var err error
		postings, err = s.Search(ctx, q)
		return err
	})
	if err != nil {
		engine.IncrSearchFailures()
		slog.Warn("job search failed",
			slog.String("term", q.Term),
			slog.String("location", q.Location),
			slog.Int("partial", len(postings)),
			slog.Any("error", err))
		if len(postings) == 0 {
			res.Warnings = append(res.Warnings, "job search failed: "+err.Error())
			return res
		}
		res.Warnings = append(res.Warnings, "some providers failed: "+err.Error())
	}

	kept, excluded := FilterTitles(postings, exclusions)
	engine.AddFilterCounts(len(kept), excluded)

	res.Postings = kept
	res.Total = len(kept)
	res.Excluded = excluded
	if len(kept) == 0 {
		res.Warnings = append(res.Warnings, NoResultsHint)
	}
	return res
}
