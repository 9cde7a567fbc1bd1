package jobserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobdash/internal/profile"
	"github.com/anatolykoptev/go_jobdash/internal/session"
)

// Server holds the collaborators the dashboard tools act on.
type Server struct {
	Profiles  *profile.Registry
	Sessions  *session.Store
	Shortlist *jobs.Shortlist
	Searcher  jobs.Searcher
	// Details fetches full descriptions lazily; nil disables it.
	Details         jobs.DetailFetcher
	DefaultLocation string
	// DefaultLimit applies when job_search is called without a limit.
	DefaultLimit int
	// ReportDir, when set, also receives a copy of every exported report.
	ReportDir string
	Now       func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// clearShortlist drops the shortlist of a session; used on reset, profile switch and eviction.
func (s *Server) clearShortlist(ctx context.Context, sessionID string) {
	if s.Shortlist == nil {
		return
	}
	if err := s.Shortlist.Clear(ctx, sessionID); err != nil {
		slog.Warn("shortlist clear failed", slog.String("session", sessionID), slog.Any("error", err))
	}
}

// OnSessionDropped is the session.Store eviction hook.
func (s *Server) OnSessionDropped(id string) {
	s.clearShortlist(context.Background(), id)
}

// EmptyInput is the input of tools without parameters.
type EmptyInput struct{}

// RegisterTools registers every dashboard tool on the MCP server.
func RegisterTools(server *mcp.Server, s *Server) {
	registerProfileList(server, s)
	registerProfileSelect(server, s)
	registerSalaryReference(server, s)
	registerJobSearch(server, s)
	registerJobDetails(server, s)
	registerShortlist(server, s)
	registerInterviewQuestions(server, s)
	registerInterviewScore(server, s)
	registerInterviewSummary(server, s)
	registerSkillSet(server, s)
	registerSkillGap(server, s)
	registerCVUpload(server, s)
	registerReportExport(server, s)
	registerSessionReset(server, s)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 16
