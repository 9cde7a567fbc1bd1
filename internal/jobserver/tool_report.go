package jobserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
	"github.com/anatolykoptev/go_jobdash/internal/report"
	"github.com/anatolykoptev/go_jobdash/internal/session"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

// ReportExportOutput is the output of report_export.
type ReportExportOutput struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Size     int      `json:"size"`
	Base64   string   `json:"content_base64"`
	Path     string   `json:"path,omitempty"`
	Sections []string `json:"sections"`
	Warnings []string `json:"warnings,omitempty"`
}

// reportInput maps the session state onto the report layout.
func reportInput(snap session.Snapshot, at time.Time) report.Input {
	in := report.Input{
		ProfileName: snap.ProfileName,
		Roles:       snap.Roles,
		Average:     snap.Average,
		Answered:    snap.Answered,
		Questions:   snap.Questions,
		CVText:      snap.CVText,
		GeneratedAt: at,
	}
	for _, g := range snap.Gaps {
		in.Skills = append(in.Skills, report.SkillRow{Skill: g.Skill, Market: g.Market, User: g.User, Gap: g.Signed})
	}
	return in
}

func reportFilename(profileID string, at time.Time) string {
	id := strings.NewReplacer(" ", "_", "/", "_").Replace(strings.ToLower(profileID))
	return fmt.Sprintf("rapport_%s_%s.pdf", id, at.Format("20060102_150405"))
}

// ReportExport renders the session's dashboard as a PDF.
func (s *Server) ReportExport(ctx context.Context, sessionID string) (ReportExportOutput, error) {
	now := s.now()
	snap := s.Sessions.Get(sessionID).Snapshot()
	doc := report.Build(reportInput(snap, now))
	var data []byte
	err := engine.TrackOperation(ctx, "report_export", func(context.Context) error {
		var err error
		data, err = report.Render(doc)
		return err
	})
	if err != nil {
		return ReportExportOutput{}, fmt.Errorf("render report: %w", err)
	}
	engine.IncrReportsExported()

	out := ReportExportOutput{
		ID:       uuid.NewString(),
		Filename: reportFilename(snap.ProfileID, now),
		Size:     len(data),
		Base64:   base64.StdEncoding.EncodeToString(data),
	}
	for _, sec := range doc.Sections {
		out.Sections = append(out.Sections, sec.Kind.String())
	}

	if s.ReportDir != "" {
		path := filepath.Join(s.ReportDir, out.Filename)
		if err := writeReport(path, data); err != nil {
			slog.Warn("report_export: write failed", slog.String("path", path), slog.Any("error", err))
			out.Warnings = append(out.Warnings, "report not saved to disk: "+err.Error())
		} else {
			out.Path = path
		}
	}

	slog.Info("report_export",
		slog.String("session", sessionID),
		slog.String("id", out.ID),
		slog.Int("size", out.Size))
	return out, nil
}

func writeReport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func registerReportExport(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "report_export",
		Description: "Export the dashboard as a PDF report: profile, interview readiness score, target roles, skill assessment table and a CV excerpt. Returns the file as base64.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ReportExportOutput, error) {
		out, err := s.ReportExport(ctx, toolutil.SessionID(req))
		return nil, out, err
	})
}
