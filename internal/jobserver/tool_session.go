package jobserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// SessionResetOutput is the output of session_reset.
type SessionResetOutput struct {
	Profile string `json:"profile"`
	Message string `json:"message"`
}

// SessionReset clears scores, skill levels, search results, CV and shortlist.
// The selected profile is kept.
func (s *Server) SessionReset(ctx context.Context, sessionID string) SessionResetOutput {
	sess := s.Sessions.Get(sessionID)
	sess.Reset()
	s.clearShortlist(ctx, sessionID)
	slog.Info("session_reset", slog.String("session", sessionID))
	return SessionResetOutput{
		Profile: sess.Profile().Name,
		Message: "Session réinitialisée.",
	}
}

func registerSessionReset(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_reset",
		Description: "Clear interview scores, skill levels, search results, the uploaded CV and the shortlist. The selected profile is kept.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true), IdempotentHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, SessionResetOutput, error) {
		return nil, s.SessionReset(ctx, toolutil.SessionID(req)), nil
	})
}
