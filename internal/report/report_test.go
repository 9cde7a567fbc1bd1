package report

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() Input {
	return Input{
		ProfileName: "Finance & Conformité",
		Roles:       []string{"Analyste LCB-FT", "Analyste AML-FT", "Chargé de conformité", "Analyste ESG", "Gestion de portefeuille", "Analyste crédit"},
		Skills: []SkillRow{
			{Skill: "KYC / AML", Market: 80, User: 60, Gap: "-20"},
			{Skill: "Excel / VBA", Market: 50, User: 70, Gap: "+20"},
		},
		Average:     7,
		Answered:    3,
		Questions:   10,
		GeneratedAt: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
}

func kinds(d Document) []SectionKind {
	out := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Kind
	}
	return out
}

func TestBuildOmitsEmptyCV(t *testing.T) {
	for _, cv := range []string{"", "   \n\t "} {
		doc := Build(Input{ProfileName: "x", CVText: cv})
		_, ok := doc.Section(SectionCV)
		assert.False(t, ok, "CV %q should be omitted", cv)
		assert.Equal(t, []SectionKind{SectionHeader, SectionScore, SectionRoles, SectionSkills}, kinds(doc))
	}
}

func TestBuildSectionOrder(t *testing.T) {
	in := sampleInput()
	in.CVText = "Jean Dupont, analyste."
	doc := Build(in)

	assert.Equal(t, []SectionKind{SectionHeader, SectionScore, SectionRoles, SectionSkills, SectionCV}, kinds(doc))

	header, _ := doc.Section(SectionHeader)
	assert.Contains(t, header.Lines[0], "Finance & Conformité")
	assert.Contains(t, header.Lines[1], "14/10/2026")

	score, _ := doc.Section(SectionScore)
	assert.Equal(t, "Score moyen : 7.0 / 10", score.Lines[0])
	assert.Equal(t, "Questions évaluées : 3 / 10", score.Lines[1])

	roles, _ := doc.Section(SectionRoles)
	require.Len(t, roles.Lines, MaxRoles)
	assert.Equal(t, "- Analyste LCB-FT", roles.Lines[0])

	skills, _ := doc.Section(SectionSkills)
	assert.Equal(t, [][]string{{"KYC / AML", "80", "60", "-20"}, {"Excel / VBA", "50", "70", "+20"}}, skills.Rows)

	cv, _ := doc.Section(SectionCV)
	assert.Equal(t, []string{"Jean Dupont, analyste."}, cv.Lines)
}

func TestCVExcerptTruncation(t *testing.T) {
	long := strings.Repeat("é", CVLimit+200)
	got, ok := CVExcerpt(long)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(got, TruncationMarker))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), CVLimit+utf8.RuneCountInString(TruncationMarker))

	short := strings.Repeat("a", CVLimit)
	got, ok = CVExcerpt(short)
	require.True(t, ok)
	assert.Equal(t, short, got, "text at the limit is not truncated")

	in := sampleInput()
	in.CVText = long
	cv, ok := Build(in).Section(SectionCV)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(cv.Lines[0], TruncationMarker))
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Conformité à l'élève", "Conformité à l'élève"},
		{"45-55 k€ – “ok”", "45-55 k€ – “ok”"},
		{"Łódź", "?ódz"},
		{"Gdańsk ő", "Gdansk o"},
		{"ﬁnance", "finance"},
		{"数据 analyst", "?? analyst"},
		{"x ≥ 3 → ok", "x >= 3 -> ok"},
		{"emoji 🚀", "emoji ?"},
		{"line\nbreak", "line\nbreak"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Transliterate(tt.in), "input %q", tt.in)
	}
}

func TestRender(t *testing.T) {
	in := sampleInput()
	in.CVText = "Compétences : 数据, Łódź, 🚀 " + strings.Repeat("texte long ", 200)
	data, err := Render(Build(in))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output must be a PDF")
	assert.Greater(t, len(data), 1000)
}

func TestRenderWithoutCV(t *testing.T) {
	data, err := Render(Build(Input{ProfileName: "Finance & Communication"}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
