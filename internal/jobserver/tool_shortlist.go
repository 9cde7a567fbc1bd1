package jobserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

var errNoShortlist = errors.New("shortlist is not available")

// ShortlistAddInput is the input of shortlist_add.
type ShortlistAddInput struct {
	Index int `json:"index" jsonschema:"1-based position of the posting in the last job_search result" validate:"min=1"`
}

// ShortlistRemoveInput is the input of shortlist_remove.
type ShortlistRemoveInput struct {
	ID int64 `json:"id" jsonschema:"Shortlist entry id as returned by shortlist_list" validate:"min=1"`
}

// ShortlistOutput is the output of the shortlist tools.
type ShortlistOutput struct {
	Entries []jobs.ShortlistEntry `json:"entries"`
	Total   int                   `json:"total"`
	Message string                `json:"message,omitempty"`
}

func (s *Server) shortlistOutput(ctx context.Context, sessionID, msg string) (ShortlistOutput, error) {
	entries, err := s.Shortlist.List(ctx, sessionID)
	if err != nil {
		return ShortlistOutput{}, err
	}
	return ShortlistOutput{Entries: entries, Total: len(entries), Message: msg}, nil
}

func (s *Server) ShortlistAdd(ctx context.Context, sessionID string, in ShortlistAddInput) (ShortlistOutput, error) {
	if s.Shortlist == nil {
		return ShortlistOutput{}, errNoShortlist
	}
	if err := toolutil.Validate(in); err != nil {
		return ShortlistOutput{}, err
	}
	p, err := s.Sessions.Get(sessionID).Posting(in.Index)
	if err != nil {
		return ShortlistOutput{}, err
	}
	added, err := s.Shortlist.Add(ctx, sessionID, p)
	if err != nil {
		return ShortlistOutput{}, err
	}
	msg := fmt.Sprintf("%q at %q added to the shortlist.", p.Title, p.Company)
	if !added {
		msg = fmt.Sprintf("%q at %q is already in the shortlist.", p.Title, p.Company)
	}
	return s.shortlistOutput(ctx, sessionID, msg)
}

func (s *Server) ShortlistList(ctx context.Context, sessionID string) (ShortlistOutput, error) {
	if s.Shortlist == nil {
		return ShortlistOutput{}, errNoShortlist
	}
	s.Sessions.Get(sessionID)
	return s.shortlistOutput(ctx, sessionID, "")
}

func (s *Server) ShortlistRemove(ctx context.Context, sessionID string, in ShortlistRemoveInput) (ShortlistOutput, error) {
	if s.Shortlist == nil {
		return ShortlistOutput{}, errNoShortlist
	}
	if err := toolutil.Validate(in); err != nil {
		return ShortlistOutput{}, err
	}
	s.Sessions.Get(sessionID)
	if err := s.Shortlist.Remove(ctx, sessionID, in.ID); err != nil {
		return ShortlistOutput{}, err
	}
	return s.shortlistOutput(ctx, sessionID, fmt.Sprintf("Entry %d removed.", in.ID))
}

func registerShortlist(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "shortlist_add",
		Description: "Bookmark a posting of the last job_search for later review. The shortlist lasts for the session only.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ShortlistAddInput) (*mcp.CallToolResult, ShortlistOutput, error) {
		out, err := s.ShortlistAdd(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shortlist_list",
		Description: "List the postings bookmarked in this session.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ShortlistOutput, error) {
		out, err := s.ShortlistList(ctx, toolutil.SessionID(req))
		return nil, out, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shortlist_remove",
		Description: "Remove a bookmarked posting by its shortlist id.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ShortlistRemoveInput) (*mcp.CallToolResult, ShortlistOutput, error) {
		out, err := s.ShortlistRemove(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}
