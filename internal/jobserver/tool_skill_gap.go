package jobserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/session"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// SkillSetInput is the input of skill_set.
type SkillSetInput struct {
	Skill string `json:"skill" jsonschema:"Skill name from the profile taxonomy (see skill_gap)" validate:"required"`
	Level int    `json:"level" jsonschema:"Self-assessed level from 0 to 100"`
}

// SkillSetOutput is the output of skill_set.
type SkillSetOutput struct {
	Gap session.Gap `json:"gap"`
}

// SkillGapOutput is the output of skill_gap.
type SkillGapOutput struct {
	Profile string        `json:"profile"`
	Skills  []session.Gap `json:"skills"`
	Below   int           `json:"below_market"`
	Above   int           `json:"at_or_above_market"`
}

func (s *Server) SkillSet(_ context.Context, sessionID string, in SkillSetInput) (SkillSetOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return SkillSetOutput{}, err
	}
	g, err := s.Sessions.Get(sessionID).SetSkill(in.Skill, in.Level)
	if err != nil {
		return SkillSetOutput{}, err
	}
	return SkillSetOutput{Gap: g}, nil
}

func (s *Server) SkillGap(_ context.Context, sessionID string) SkillGapOutput {
	sess := s.Sessions.Get(sessionID)
	out := SkillGapOutput{Profile: sess.Profile().Name, Skills: sess.SkillGaps()}
	for _, g := range out.Skills {
		if g.Delta < 0 {
			out.Below++
		} else {
			out.Above++
		}
	}
	return out
}

func registerSkillSet(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_set",
		Description: "Set your self-assessed level (0-100) for a skill of the profile taxonomy. Returns the signed gap to the market expectation.",
		Annotations: &mcp.ToolAnnotations{IdempotentHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in SkillSetInput) (*mcp.CallToolResult, SkillSetOutput, error) {
		out, err := s.SkillSet(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}

func registerSkillGap(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_gap",
		Description: "Compare your skill levels with market expectations: skill, market level, your level and signed gap (e.g. -20, +20).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, SkillGapOutput, error) {
		return nil, s.SkillGap(ctx, toolutil.SessionID(req)), nil
	})
}
