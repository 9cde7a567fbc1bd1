// Package session holds the per-user dashboard state: the selected profile,
// interview self-scores, skill levels, the last search result and the uploaded CV.
// State lives in memory only and is dropped when the session ends.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_jobdash/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobdash/internal/profile"
)

var (
	// ErrUnknownQuestion is returned for a question outside the profile bank.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrNoResults is returned when a posting is requested before any search.
	ErrNoResults = errors.New("no search results in session")
)

// CV is an uploaded document and its extracted text.
type CV struct {
	Filename   string    `json:"filename"`
	Text       string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// QuestionScore is one line of the interview summary. Score is nil when unanswered.
type QuestionScore struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Score    *int   `json:"score,omitempty"`
}

// InterviewSummary aggregates the interview practice of a session.
type InterviewSummary struct {
	Average   float64         `json:"average"`
	Answered  int             `json:"answered"`
	Total     int             `json:"total"`
	Questions []QuestionScore `json:"questions"`
}

// Snapshot is a consistent read of the state a report needs.
type Snapshot struct {
	ProfileID   string
	ProfileName string
	Roles       []string
	Gaps        []Gap
	Average     float64
	Answered    int
	Questions   int
	CVText      string
}

// Session is the state of one user. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	profile  *profile.Profile
	scores   *InterviewScores
	skills   *SkillLevels
	results  *jobs.Result
	cv       CV
	lastSeen time.Time
}

// New starts a session on profile p.
func New(id string, p *profile.Profile) *Session {
	s := &Session{ID: id, lastSeen: time.Now()}
	s.selectProfile(p)
	return s
}

func (s *Session) selectProfile(p *profile.Profile) {
	s.profile = p
	s.scores = NewInterviewScores()
	s.skills = NewSkillLevels(p.Skills)
	s.results = nil
}

// Profile returns the selected profile.
func (s *Session) Profile() *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SelectProfile switches profile. Skill levels return to the new market defaults;
// interview scores and search results are cleared. The CV is kept.
func (s *Session) SelectProfile(p *profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectProfile(p)
}

// Reset clears everything, keeping the current profile.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectProfile(s.profile)
	s.cv = CV{}
}

// resolveQuestion finds a bank question by 1-based index or by text
// (case-insensitive). A positive index wins over text.
func (s *Session) resolveQuestion(index int, text string) (string, error) {
	qs := s.profile.Questions
	if index > 0 {
		if index > len(qs) {
			return "", fmt.Errorf("%w: index %d (profile has %d questions)", ErrUnknownQuestion, index, len(qs))
		}
		return qs[index-1], nil
	}
	text = strings.TrimSpace(text)
	for _, q := range qs {
		if strings.EqualFold(q, text) {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownQuestion, text)
}

// RecordScore scores a bank question and returns the new average.
func (s *Session) RecordScore(index int, text string, score int) (string, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.resolveQuestion(index, text)
	if err != nil {
		return "", 0, err
	}
	if err := s.scores.Record(q, score); err != nil {
		return q, s.scores.Average(), err
	}
	return q, s.scores.Average(), nil
}

// Interview returns the readiness score and the per-question breakdown.
func (s *Session) Interview() InterviewSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := InterviewSummary{
		Average:   s.scores.Average(),
		Answered:  s.scores.Len(),
		Total:     len(s.profile.Questions),
		Questions: make([]QuestionScore, len(s.profile.Questions)),
	}
	for i, q := range s.profile.Questions {
		qs := QuestionScore{Index: i + 1, Question: q}
		if v, ok := s.scores.Score(q); ok {
			qs.Score = &v
		}
		sum.Questions[i] = qs
	}
	return sum
}

// SetSkill overwrites the user level of a skill.
func (s *Session) SetSkill(name string, level int) (Gap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.Set(name, level)
}

// SkillGaps returns the comparison table in taxonomy order.
func (s *Session) SkillGaps() []Gap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.Gaps()
}

// SetResults stores a copy of the last search result.
func (s *Session) SetResults(r jobs.Result) {
	r = cloneResult(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = &r
}

// Results returns a copy of the last search result.
func (s *Session) Results() (jobs.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return jobs.Result{}, false
	}
	return cloneResult(*s.results), true
}

// cloneResult detaches the slices of r from the caller's.
func cloneResult(r jobs.Result) jobs.Result {
	r.Postings = slices.Clone(r.Postings)
	r.Warnings = slices.Clone(r.Warnings)
	r.Query.Sites = slices.Clone(r.Query.Sites)
	return r
}

// Posting returns the 1-based i-th posting of the last search.
func (s *Session) Posting(i int) (jobs.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return jobs.Posting{}, ErrNoResults
	}
	if i < 1 || i > len(s.results.Postings) {
		return jobs.Posting{}, fmt.Errorf("posting %d out of range (1-%d)", i, len(s.results.Postings))
	}
	return s.results.Postings[i-1], nil
}

// SetDescription fills in the description of the i-th posting if it is still
// the posting with the given URL.
func (s *Session) SetDescription(i int, postingURL, desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil || i < 1 || i > len(s.results.Postings) {
		return
	}
	if p := &s.results.Postings[i-1]; p.URL == postingURL {
		p.Description = desc
	}
}

// SetCV replaces the uploaded CV.
func (s *Session) SetCV(cv CV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cv = cv
}

// CV returns the uploaded CV; the zero value when none.
func (s *Session) CV() CV {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cv
}

// Snapshot copies the state needed to build a report.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ProfileID:   s.profile.ID,
		ProfileName: s.profile.Name,
		Roles:       s.profile.RoleNames(),
		Gaps:        s.skills.Gaps(),
		Average:     s.scores.Average(),
		Answered:    s.scores.Len(),
		Questions:   len(s.profile.Questions),
		CVText:      s.cv.Text,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
