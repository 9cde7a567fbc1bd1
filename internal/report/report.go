// Package report assembles the dashboard summary and renders it as a PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

const (
	// MaxRoles is how many target roles the report lists.
	MaxRoles = 5
	// CVLimit is the CV excerpt length in runes.
	CVLimit = 1000
	// TruncationMarker ends a truncated CV excerpt.
	TruncationMarker = "..."
)

// SkillRow is one line of the skill assessment table.
type SkillRow struct {
	Skill  string
	Market int
	User   int
	Gap    string
}

// Input is everything the report is built from.
type Input struct {
	ProfileName string
	Roles       []string
	Skills      []SkillRow
	Average     float64
	Answered    int
	Questions   int
	CVText      string
	GeneratedAt time.Time
}

// SectionKind identifies a report section.
type SectionKind int

const (
	SectionHeader SectionKind = iota
	SectionScore
	SectionRoles
	SectionSkills
	SectionCV
)

func (k SectionKind) String() string {
	switch k {
	case SectionHeader:
		return "header"
	case SectionScore:
		return "score"
	case SectionRoles:
		return "roles"
	case SectionSkills:
		return "skills"
	case SectionCV:
		return "cv"
	}
	return fmt.Sprintf("section(%d)", int(k))
}

// Section is a titled block of paragraphs, or a table when Rows is set.
type Section struct {
	Kind    SectionKind
	Title   string
	Lines   []string
	Columns []string
	Rows    [][]string
}

// Document is a report ready to render.
type Document struct {
	Title    string
	Sections []Section
}

// Section returns the first section of kind k.
func (d Document) Section(k SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return Section{}, false
}

// Build lays out the sections in their fixed order: header, score, roles, skills, CV.
// The CV section is left out when the CV text is blank.
func Build(in Input) Document {
	at := in.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	doc := Document{Title: "Rapport de recherche d'emploi"}

	doc.Sections = append(doc.Sections, Section{
		Kind:  SectionHeader,
		Title: doc.Title,
		Lines: []string{
			"Profil : " + in.ProfileName,
			"Généré le " + at.Format("02/01/2006 15:04"),
		},
	})

	doc.Sections = append(doc.Sections, Section{
		Kind:  SectionScore,
		Title: "Score de préparation aux entretiens",
		Lines: []string{
			fmt.Sprintf("Score moyen : %.1f / 10", in.Average),
			fmt.Sprintf("Questions évaluées : %d / %d", in.Answered, in.Questions),
		},
	})

	roles := in.Roles
	if len(roles) > MaxRoles {
		roles = roles[:MaxRoles]
	}
	rolesSec := Section{Kind: SectionRoles, Title: "Postes ciblés"}
	for _, r := range roles {
		rolesSec.Lines = append(rolesSec.Lines, "- "+r)
	}
	doc.Sections = append(doc.Sections, rolesSec)

	skills := Section{
		Kind:    SectionSkills,
		Title:   "Évaluation des compétences",
		Columns: []string{"Compétence", "Marché", "Vous", "Écart"},
	}
	for _, s := range in.Skills {
		skills.Rows = append(skills.Rows, []string{s.Skill, fmt.Sprint(s.Market), fmt.Sprint(s.User), s.Gap})
	}
	doc.Sections = append(doc.Sections, skills)

	if excerpt, ok := CVExcerpt(in.CVText); ok {
		doc.Sections = append(doc.Sections, Section{
			Kind:  SectionCV,
			Title: "Extrait du CV",
			Lines: []string{excerpt},
		})
	}
	return doc
}

// CVExcerpt trims the CV to CVLimit runes, marking the cut.
// It reports false for blank text.
func CVExcerpt(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return engine.TruncateRunes(text, CVLimit, TruncationMarker), true
}
