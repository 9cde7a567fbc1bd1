package cv

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, l := range lines {
		doc.CellFormat(0, 8, l, "", 1, "L", false, 0, "")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	got, err := Extract("cv.txt", []byte("  Jean   Dupont\r\n\r\n\r\nAnalyste crédit  "))
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont\n\nAnalyste crédit", got)
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Jean Dupont</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>KYC &amp; AML</w:t></w:r></w:p>`)

	got, err := Extract("cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont\nKYC & AML", got)
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, "Jean Dupont", "Analyste LCB-FT")

	got, err := Extract("cv.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, got, "Dupont")
	assert.Contains(t, got, "LCB-FT")
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"empty", "cv.pdf", nil},
		{"malformed pdf", "cv.pdf", []byte("%PDF-1.4\nnot really a pdf")},
		{"corrupt docx", "cv.docx", []byte("PK\x03\x04garbage")},
		{"invalid utf8", "cv.txt", []byte{0xff, 0xfe, 0xfd}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.filename, tt.data)
			assert.Error(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestDetect(t *testing.T) {
	k, err := Detect("CV.PDF", nil)
	require.NoError(t, err)
	assert.Equal(t, KindPDF, k)

	k, err = Detect("upload", buildPDF(t, "x"))
	require.NoError(t, err)
	assert.Equal(t, KindPDF, k)

	k, err = Detect("upload", buildDOCX(t, ""))
	require.NoError(t, err)
	assert.Equal(t, KindDOCX, k)

	k, err = Detect("notes", []byte("plain words"))
	require.NoError(t, err)
	assert.Equal(t, KindText, k)

	_, err = Detect("photo.png", []byte("\x89PNG\r\n\x1a\n0000"))
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}
