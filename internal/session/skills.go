package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_jobdash/internal/profile"
)

// Skill level bounds.
const (
	MinLevel = 0
	MaxLevel = 100
)

var (
	// ErrUnknownSkill is returned for a skill outside the profile taxonomy.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrLevelOutOfRange is returned for levels outside [MinLevel, MaxLevel].
	ErrLevelOutOfRange = errors.New("skill level out of range")
)

// Gap compares the user level of one skill with the market expectation.
type Gap struct {
	Skill  string `json:"skill"`
	Market int    `json:"market"`
	User   int    `json:"user"`
	Delta  int    `json:"delta"`
	Signed string `json:"gap"`
}

// FormatGap renders user - market with an explicit sign: "-20", "+20", "+0".
func FormatGap(market, user int) string {
	return fmt.Sprintf("%+d", user-market)
}

// NewGap builds the comparison of one skill.
func NewGap(skill string, market, user int) Gap {
	return Gap{Skill: skill, Market: market, User: user, Delta: user - market, Signed: FormatGap(market, user)}
}

// SkillLevels maps the taxonomy skills to the user's self-assessed level.
type SkillLevels struct {
	taxonomy []profile.Skill
	levels   map[string]int
}

// NewSkillLevels starts every skill at its market level.
func NewSkillLevels(taxonomy []profile.Skill) *SkillLevels {
	s := &SkillLevels{
		taxonomy: append([]profile.Skill(nil), taxonomy...),
		levels:   make(map[string]int, len(taxonomy)),
	}
	s.Reset()
	return s
}

// Reset returns every level to the market default.
func (s *SkillLevels) Reset() {
	clear(s.levels)
	for _, sk := range s.taxonomy {
		s.levels[sk.Name] = sk.Market
	}
}

func (s *SkillLevels) lookup(name string) (profile.Skill, bool) {
	name = strings.TrimSpace(name)
	for _, sk := range s.taxonomy {
		if strings.EqualFold(sk.Name, name) {
			return sk, true
		}
	}
	return profile.Skill{}, false
}

// Set overwrites the user level of a taxonomy skill, matched case-insensitively.
// It returns the resulting gap.
func (s *SkillLevels) Set(name string, level int) (Gap, error) {
	sk, ok := s.lookup(name)
	if !ok {
		return Gap{}, fmt.Errorf("%w %q", ErrUnknownSkill, name)
	}
	if level < MinLevel || level > MaxLevel {
		return Gap{}, fmt.Errorf("%w: %d (allowed %d-%d)", ErrLevelOutOfRange, level, MinLevel, MaxLevel)
	}
	s.levels[sk.Name] = level
	return NewGap(sk.Name, sk.Market, level), nil
}

// Level returns the current user level of a skill.
func (s *SkillLevels) Level(name string) (int, bool) {
	sk, ok := s.lookup(name)
	if !ok {
		return 0, false
	}
	return s.levels[sk.Name], true
}

// Gaps lists every skill in taxonomy order.
func (s *SkillLevels) Gaps() []Gap {
	out := make([]Gap, len(s.taxonomy))
	for i, sk := range s.taxonomy {
		out[i] = NewGap(sk.Name, sk.Market, s.levels[sk.Name])
	}
	return out
}
