package jobserver

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/cv"
	"github.com/anatolykoptev/go_jobdash/internal/engine"
	"github.com/anatolykoptev/go_jobdash/internal/session"
	"github.com/anatolykoptev/go_jobdash/internal/toolutil"
)

const cvPreviewRunes = 300

// CVUploadInput is the input of cv_upload.
type CVUploadInput struct {
	Filename string `json:"filename" jsonschema:"Original file name; the extension selects the parser (.pdf, .docx, .txt)" validate:"required"`
	Content  string `json:"content" jsonschema:"Document bytes, base64 encoded" validate:"required"`
}

// CVUploadOutput is the output of cv_upload.
type CVUploadOutput struct {
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Preview    string `json:"preview,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// CVUpload extracts the document text into the session.
// A document that cannot be read leaves empty CV text and a warning.
func (s *Server) CVUpload(_ context.Context, sessionID string, in CVUploadInput) (CVUploadOutput, error) {
	if err := toolutil.Validate(in); err != nil {
		return CVUploadOutput{}, err
	}
	engine.IncrCVUploads()
	sess := s.Sessions.Get(sessionID)
	out := CVUploadOutput{Filename: in.Filename}

	text := ""
	data, err := toolutil.DecodeBase64(in.Content)
	if err == nil {
		text, err = cv.Extract(in.Filename, data)
	}
	if err != nil {
		engine.IncrCVFailures()
		slog.Warn("cv_upload: extraction failed", slog.String("filename", in.Filename), slog.Any("error", err))
		out.Warning = "Impossible de lire le CV: " + err.Error()
		text = ""
	} else if text == "" {
		out.Warning = "Le document ne contient aucun texte exploitable."
	}

	sess.SetCV(session.CV{Filename: in.Filename, Text: text, UploadedAt: s.now()})
	out.Characters = utf8.RuneCountInString(text)
	out.Preview = engine.TruncateRunes(text, cvPreviewRunes, "...")
	return out, nil
}

func registerCVUpload(server *mcp.Server, s *Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "cv_upload",
		Description: "Upload a CV (PDF, DOCX or plain text, base64 encoded). The extracted text is kept for the session and included in the exported report. Unreadable documents produce a warning and an empty CV.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in CVUploadInput) (*mcp.CallToolResult, CVUploadOutput, error) {
		out, err := s.CVUpload(ctx, toolutil.SessionID(req), in)
		return nil, out, err
	})
}
