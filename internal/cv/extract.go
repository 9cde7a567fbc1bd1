// Package cv extracts plain text from uploaded CV documents.
package cv

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

// ErrUnsupportedType is returned for documents that are not PDF, DOCX or plain text.
var ErrUnsupportedType = errors.New("unsupported document type")

// MaxSize caps uploaded documents.
const MaxSize = 10 << 20

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "txt"
)

// Detect picks the document kind from the file extension, falling back to content sniffing.
func Detect(filename string, data []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".txt", ".md", ".text":
		return KindText, nil
	}
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		return KindPDF, nil
	case mt.Is(docxMIME), mt.Is("application/zip") && bytes.Contains(data, []byte("word/")):
		return KindDOCX, nil
	case mt.Is("text/plain"):
		return KindText, nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, filename, mt.String())
	}
}

// Extract returns the whitespace-normalized text of the document.
func Extract(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("cv: empty document")
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("cv: document too large (%d bytes, max %d)", len(data), MaxSize)
	}
	kind, err := Detect(filename, data)
	if err != nil {
		return "", err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("cv: %s is not valid UTF-8", filename)
		}
		text = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("cv: %s: %w", kind, err)
	}
	return engine.NormalizeSpace(text), nil
}

// extractPDF reads the text of every page, skipping empty ones.
// The PDF reader panics on some malformed files; that becomes an error.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if t = strings.TrimSpace(t); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n"), nil
}

var docxBreaks = strings.NewReplacer("</w:p>", "\n", "<w:br/>", "\n", "<w:tab/>", " ")

// extractDOCX strips the WordprocessingML markup, keeping paragraph breaks.
func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	return html.UnescapeString(engine.CleanHTML(docxBreaks.Replace(content))), nil
}
