package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

const remotiveAPI = "https://remotive.com/api/remote-jobs"

// remotiveDateLayout is the publication_date format, UTC without zone.
const remotiveDateLayout = "2006-01-02T15:04:05"

const remotiveMaxDescription = 3000

type remotiveResponse struct {
	JobCount int           `json:"job-count"`
	Jobs     []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID                        int    `json:"id"`
	URL                       string `json:"url"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	JobType                   string `json:"job_type"`
	PublicationDate           string `json:"publication_date"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Description               string `json:"description"`
}

// Remotive searches the public remote-jobs JSON API.
// The API has no boolean search, so each alternative of the term is a separate request.
type Remotive struct {
	APIURL string
	HTTP   *http.Client
	Now    func() time.Time
}

// NewRemotive returns a provider using the engine HTTP client.
func NewRemotive() *Remotive {
	return &Remotive{APIURL: remotiveAPI}
}

// Search queries every alternative, merges the listings by URL and drops
// those older than the recency window. Failed alternatives are reported in
// the returned error alongside the postings of the others.
func (r *Remotive) Search(ctx context.Context, q Query) ([]Posting, error) {
	alts := q.Alternatives()
	if len(alts) == 0 {
		return nil, errors.New("remotive: empty search term")
	}

	if timeout := engine.Cfg.FetchTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	var cutoff time.Time
	if q.RecencyHours > 0 {
		cutoff = now().UTC().Add(-time.Duration(q.RecencyHours) * time.Hour)
	}

	var (
		out  []Posting
		errs []error
	)
	seen := make(map[string]bool)
	for _, alt := range alts {
		if q.MaxResults > 0 && len(out) >= q.MaxResults {
			break
		}
		jobs, err := r.fetch(ctx, alt, q.MaxResults)
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", alt, err))
			continue
		}
		kept := 0
		for _, j := range jobs {
			if j.Title == "" || j.URL == "" || seen[j.URL] {
				continue
			}
			published, err := time.Parse(remotiveDateLayout, j.PublicationDate)
			if err != nil {
				slog.Debug("remotive: bad publication date", slog.String("date", j.PublicationDate), slog.Int("id", j.ID))
				continue
			}
			if !cutoff.IsZero() && published.Before(cutoff) {
				continue
			}
			seen[j.URL] = true
			out = append(out, r.toPosting(j, published))
			kept++
			if q.MaxResults > 0 && len(out) >= q.MaxResults {
				break
			}
		}
		slog.Debug("remotive: search complete", slog.String("search", alt), slog.Int("raw", len(jobs)), slog.Int("kept", kept))
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("remotive: %w", errors.Join(errs...))
	}
	return out, nil
}

// fetch runs one API request for a single search term.
func (r *Remotive) fetch(ctx context.Context, search string, maxResults int) ([]remotiveJob, error) {
	base := r.APIURL
	if base == "" {
		base = remotiveAPI
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	v := u.Query()
	v.Set("search", search)
	if maxResults > 0 {
		v.Set("limit", strconv.Itoa(maxResults*2))
	}
	u.RawQuery = v.Encode()

	engine.IncrRemotiveRequests()
	body, err := engine.FetchBytes(ctx, r.HTTP, u.String(), map[string]string{"Accept": "application/json"})
	if err != nil {
		engine.IncrRemotiveErrors()
		return nil, err
	}

	var rr remotiveResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		engine.IncrRemotiveErrors()
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return rr.Jobs, nil
}

func (r *Remotive) toPosting(j remotiveJob, published time.Time) Posting {
	location := j.CandidateRequiredLocation
	if location == "" {
		location = "Worldwide"
	}
	desc := ""
	if j.Description != "" {
		md, err := htmltomarkdown.ConvertString(j.Description)
		if err != nil {
			md = engine.CleanHTML(j.Description)
		}
		desc = engine.TruncateRunes(strings.TrimSpace(md), remotiveMaxDescription, "...")
	}
	return Posting{
		Title:       j.Title,
		Company:     j.CompanyName,
		Location:    location,
		DatePosted:  published.Format("2006-01-02"),
		URL:         j.URL,
		Description: desc,
		Source:      "remotive",
	}
}
