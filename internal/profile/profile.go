// Package profile holds the static role profiles the dashboard can be switched between:
// target roles with their search queries, salary references, the skill taxonomy
// with market-expected levels, the interview question bank and the title exclusions.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProfile is returned when a profile id is not registered.
var ErrUnknownProfile = errors.New("unknown profile")

// ErrUnknownRole is returned when a role name is not part of the profile.
var ErrUnknownRole = errors.New("unknown role")

// Role is a target position and the provider query that finds it.
type Role struct {
	Name  string `yaml:"name" json:"name"`
	Query string `yaml:"query" json:"query"`
}

// Skill is a taxonomy entry with the level (0-100) the market expects.
type Skill struct {
	Name   string `yaml:"name" json:"name"`
	Market int    `yaml:"market" json:"market"`
}

// Profile is one read-only configuration bundle.
type Profile struct {
	ID         string                       `yaml:"id" json:"id"`
	Name       string                       `yaml:"name" json:"name"`
	Roles      []Role                       `yaml:"roles" json:"roles"`
	Salaries   map[string]map[string]string `yaml:"salaries" json:"salaries"`
	Skills     []Skill                      `yaml:"skills" json:"skills"`
	Questions  []string                     `yaml:"questions" json:"questions"`
	Exclusions []string                     `yaml:"exclusions" json:"exclusions"`
}

// Role looks a role up by name, case-insensitively.
func (p *Profile) Role(name string) (Role, error) {
	name = strings.TrimSpace(name)
	for _, r := range p.Roles {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("%w %q in profile %s", ErrUnknownRole, name, p.ID)
}

// RoleNames returns role names in declaration order.
func (p *Profile) RoleNames() []string {
	names := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		names[i] = r.Name
	}
	return names
}

// SalaryCategories returns the salary table categories, sorted.
func (p *Profile) SalaryCategories() []string {
	cats := make([]string, 0, len(p.Salaries))
	for c := range p.Salaries {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Validate checks the invariants every bundle must hold.
func (p *Profile) Validate() error {
	if p.ID == "" || p.Name == "" {
		return errors.New("profile: id and name are required")
	}
	if len(p.Roles) == 0 {
		return fmt.Errorf("profile %s: at least one role is required", p.ID)
	}
	for _, r := range p.Roles {
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Query) == "" {
			return fmt.Errorf("profile %s: role name and query are required", p.ID)
		}
	}
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		key := strings.ToLower(s.Name)
		if seen[key] {
			return fmt.Errorf("profile %s: duplicate skill %q", p.ID, s.Name)
		}
		seen[key] = true
		if s.Market < 0 || s.Market > 100 {
			return fmt.Errorf("profile %s: skill %q market level %d outside 0-100", p.ID, s.Name, s.Market)
		}
	}
	qs := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		if qs[q] {
			return fmt.Errorf("profile %s: duplicate question %q", p.ID, q)
		}
		qs[q] = true
	}
	return nil
}
