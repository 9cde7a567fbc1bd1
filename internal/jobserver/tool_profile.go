package jobserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/profile"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// ProfileSummary describes one profile bundle.
type ProfileSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
	Skills    int      `json:"skills"`
	Questions int      `json:"questions"`
	Selected  bool     `json:"selected"`
}

func summarize(p *profile.Profile, selected bool) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		Name:      p.Name,
		Roles:     p.RoleNames(),
		Skills:    len(p.Skills),
		Questions: len(p.Questions),
		Selected:  selected,
	}
}

// ProfileListOutput is the output of profile_list.
type ProfileListOutput struct {
	Profiles []ProfileSummary `json:"profiles"`
}

// ProfileSelectInput is the input of profile_select.
type ProfileSelectInput struct {
	Profile string `json:"profile" jsonschema:"Profile id (e.g. finance, communication)" validate:"required"`
}

// ProfileSelectOutput is the output of profile_select.
type ProfileSelectOutput struct {
	Profile ProfileSummary `json:"profile"`
	Message string         `json:"message"`
}

// SalaryReferenceInput is the input of salary_reference.
type SalaryReferenceInput struct {
	Category string `json:"category,omitempty" jsonschema:"Salary category to show (default: all categories)"`
}

// SalaryEntry is one company estimate.
type SalaryEntry struct {
	Company string `json:"company"`
	Salary  string `json:"salary"`
}

// SalaryCategory groups estimates of one job family.
type SalaryCategory struct {
	Name    string        `json:"name"`
	Entries []SalaryEntry `json:"entries"`
}

// SalaryReferenceOutput is the output of salary_reference.
type SalaryReferenceOutput struct {
	Profile    string           `json:"profile"`
	Categories []SalaryCategory `json:"categories"`
}

func (s *Server) ProfileList(_ context.Context, sessionID string) ProfileListOutput {
	current := s.Sessions.Get(sessionID).Profile().ID
	out := ProfileListOutput{}
	for _, p := range s.Profiles.All() {
		out.Profiles = append(out.Profiles, summarize(p, p.ID == current))
	}
	return out
}

func (s *Server) ProfileSelect(ctx context.Context, sessionID string, in ProfileSelectInput) (ProfileSelectOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return ProfileSelectOutput{}, err
	}
	p, err := s.Profiles.Get(in.Profile)
	if err != nil {
		return ProfileSelectOutput{}, err
	}
	s.Sessions.Get(sessionID).SelectProfile(p)
	s.clearShortlist(ctx, sessionID)
	return ProfileSelectOutput{
		Profile: summarize(p, true),
		Message: fmt.Sprintf("Profile %q selected: skill levels reset to market defaults, interview scores and results cleared.", p.Name),
	}, nil
}

func (s *Server) SalaryReference(_ context.Context, sessionID string, in SalaryReferenceInput) (SalaryReferenceOutput, error) {
	p := s.Sessions.Get(sessionID).Profile()
	out := SalaryReferenceOutput{Profile: p.Name}
	for _, cat := range p.SalaryCategories() {
		if in.Category != "" && !strings.EqualFold(cat, strings.TrimSpace(in.Category)) {
			continue
		}
		c := SalaryCategory{Name: cat}
		for company, salary := range p.Salaries[cat] {
			c.Entries = append(c.Entries, SalaryEntry{Company: company, Salary: salary})
		}
		sort.Slice(c.Entries, func(i, j int) bool { return c.Entries[i].Company < c.Entries[j].Company })
		out.Categories = append(out.Categories, c)
	}
	if in.Category != "" && len(out.Categories) == 0 {
		return out, fmt.Errorf("unknown salary category %q (available: %s)", in.Category, strings.Join(p.SalaryCategories(), ", "))
	}
	return out, nil
}

func registerProfileList(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_list",
		Description: "List the available role profiles (finance, communication...) with their target roles. The selected profile of the session is flagged.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ProfileListOutput, error) {
		return nil, s.ProfileList(ctx, toolutil.SessionID(req)), nil
	})
}

func registerProfileSelect(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_select",
		Description: "Switch the session to another role profile. Resets skill levels to the profile's market defaults and clears interview scores, search results and the shortlist.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ProfileSelectInput) (*mcp.CallToolResult, ProfileSelectOutput, error) {
		out, err := s.ProfileSelect(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}

func registerSalaryReference(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "salary_reference",
		Description: "Show the salary reference table (category, company, estimated salary) of the selected profile.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, in SalaryReferenceInput) (*mcp.CallToolResult, SalaryReferenceOutput, error) {
		out, err := s.SalaryReference(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}
