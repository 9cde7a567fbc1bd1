package jobserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
	"github.com/anatolykoptev/go_jobdash/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// NoDescription stands in for postings without a description.
const NoDescription = "Pas de description disponible."

// ExpiredPosting is the warning for postings the provider no longer serves.
const ExpiredPosting = "Cette offre n'est plus disponible chez le fournisseur."

// JobSearchInput is the input of job_search.
type JobSearchInput struct {
	Role       string   `json:"role" jsonschema:"Target role of the selected profile (e.g. Analyste crédit)" validate:"required"`
	Location   string   `json:"location,omitempty" jsonschema:"City or region (default: Paris, France)"`
	Days       int      `json:"days,omitempty" jsonschema:"Maximum posting age in days, 1-30 (default: 2)" validate:"min=0"`
	DistanceKm *int     `json:"distance_km,omitempty" jsonschema:"Search radius in km, 0-100 (default: 20; 0 = city only)" validate:"omitempty,min=0"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum number of postings, 1-50 (default: 20)" validate:"min=0"`
	Sites      []string `json:"sites,omitempty" jsonschema:"Providers to query: linkedin, remotive (default: all configured)" validate:"omitempty,dive,oneof=linkedin remotive"`
}

// JobSearchOutput is the output of job_search.
type JobSearchOutput struct {
	Role     string         `json:"role"`
	Query    jobs.Query     `json:"query"`
	Postings []jobs.Posting `json:"postings"`
	Total    int            `json:"total"`
	Excluded int            `json:"excluded"`
	Warnings []string       `json:"warnings,omitempty"`
}

// JobDetailsInput is the input of job_details.
type JobDetailsInput struct {
	Index int `json:"index" jsonschema:"1-based position of the posting in the last job_search result" validate:"min=1"`
}

// JobDetailsOutput is the output of job_details.
type JobDetailsOutput struct {
	Index   int          `json:"index"`
	Posting jobs.Posting `json:"posting"`
	Warning string       `json:"warning,omitempty"`
}

// JobSearch builds the query from the session profile, searches and filters.
// Only invalid input is an error; provider failures come back as warnings.
func (s *Server) JobSearch(ctx context.Context, sessionID string, in JobSearchInput) (JobSearchOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return JobSearchOutput{}, err
	}
	sess := s.Sessions.Get(sessionID)
	p := sess.Profile()

	limit := in.Limit
	if limit == 0 {
		limit = s.DefaultLimit
	}
	q, err := jobs.BuildQuery(p, in.Role, in.Location, in.Days, in.DistanceKm, limit, s.DefaultLocation)
	if err != nil {
		return JobSearchOutput{}, err
	}
	q.Sites = in.Sites

	res := jobs.Search(ctx, s.Searcher, q, p.Exclusions)
	sess.SetResults(res)

	slog.Info("job_search",
		slog.String("session", sessionID),
		slog.String("role", in.Role),
		slog.Int("total", res.Total),
		slog.Int("excluded", res.Excluded),
		slog.Int("warnings", len(res.Warnings)))

	return JobSearchOutput{
		Role:     in.Role,
		Query:    res.Query,
		Postings: res.Postings,
		Total:    res.Total,
		Excluded: res.Excluded,
		Warnings: res.Warnings,
	}, nil
}

// JobDetails returns one posting of the last search, fetching its description
// on demand when the provider supports it.
func (s *Server) JobDetails(ctx context.Context, sessionID string, in JobDetailsInput) (JobDetailsOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return JobDetailsOutput{}, err
	}
	sess := s.Sessions.Get(sessionID)
	p, err := sess.Posting(in.Index)
	if err != nil {
		return JobDetailsOutput{}, err
	}

	out := JobDetailsOutput{Index: in.Index}
	if p.Description == "" && s.Details != nil {
		desc, err := s.Details.Details(ctx, p.URL)
		if err != nil {
			slog.Warn("job_details: fetch failed", slog.String("url", p.URL), slog.Any("error", err))
			out.Warning = "description unavailable: " + err.Error()
			if engine.IsStatus(err, http.StatusNotFound) || engine.IsStatus(err, http.StatusGone) {
				out.Warning = ExpiredPosting
			}
		} else {
			p.Description = desc
			sess.SetDescription(in.Index, p.URL, desc)
		}
	}
	if p.Description == "" {
		p.Description = NoDescription
	}
	out.Posting = p
	return out, nil
}

func registerJobSearch(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_search",
		Description: "Search recent job postings for a role of the selected profile (LinkedIn, Remotive). Internships, apprenticeships and unrelated trades are filtered out by title. Provider failures are reported as warnings with an empty result.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(true)},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in JobSearchInput) (*mcp.CallToolResult, JobSearchOutput, error) {
		out, err := s.JobSearch(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}

func registerJobDetails(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_details",
		Description: "Show the full record of one posting from the last job_search (location, date, description, link).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(true)},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in JobDetailsInput) (*mcp.CallToolResult, JobDetailsOutput, error) {
		out, err := s.JobDetails(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}

func ptr[T any](v T) *T { return &v }
