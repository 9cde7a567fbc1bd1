package profile

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "communication", all[0].ID)
	assert.Equal(t, "finance", all[1].ID)

	for _, p := range all {
		assert.NotEmpty(t, p.Roles, p.ID)
		assert.NotEmpty(t, p.Skills, p.ID)
		assert.NotEmpty(t, p.Questions, p.ID)
		assert.NotEmpty(t, p.Exclusions, p.ID)
		assert.NotEmpty(t, p.Salaries, p.ID)
	}
}

func TestRegistryGet(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	p, err := reg.Get(" Finance ")
	require.NoError(t, err)
	assert.Equal(t, "Finance & Conformité", p.Name)

	_, err = reg.Get("marketing")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestProfileRole(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)
	p, err := reg.Get("finance")
	require.NoError(t, err)

	r, err := p.Role("analyste CRÉDIT")
	require.NoError(t, err)
	assert.Equal(t, "Analyste crédit OR Credit Analyst", r.Query)

	_, err = p.Role("Plombier")
	assert.True(t, errors.Is(err, ErrUnknownRole))

	assert.Equal(t, "Analyste LCB-FT", p.RoleNames()[0])
	assert.Equal(t, []string{"Analyse crédit", "Conformité", "Gestion d'actifs"}, p.SalaryCategories())
}

func TestValidate(t *testing.T) {
	base := func() Profile {
		return Profile{
			ID:     "x",
			Name:   "X",
			Roles:  []Role{{Name: "A", Query: "A OR B"}},
			Skills: []Skill{{Name: "Excel", Market: 50}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Profile)
		ok     bool
	}{
		{"valid", func(*Profile) {}, true},
		{"missing id", func(p *Profile) { p.ID = "" }, false},
		{"no roles", func(p *Profile) { p.Roles = nil }, false},
		{"empty query", func(p *Profile) { p.Roles[0].Query = " " }, false},
		{"market too high", func(p *Profile) { p.Skills[0].Market = 101 }, false},
		{"market negative", func(p *Profile) { p.Skills[0].Market = -1 }, false},
		{"duplicate skill", func(p *Profile) { p.Skills = append(p.Skills, Skill{Name: "excel", Market: 10}) }, false},
		{"duplicate question", func(p *Profile) { p.Questions = []string{"Q", "Q"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadRejectsInvalidBundle(t *testing.T) {
	fsys := fstest.MapFS{
		"data/bad.yaml": {Data: []byte("id: bad\nname: Bad\nroles: []\n")},
	}
	_, err := Load(fsys, "data")
	assert.Error(t, err)
}

func TestNewRegistryDuplicate(t *testing.T) {
	p := &Profile{ID: "a", Name: "A", Roles: []Role{{Name: "r", Query: "q"}}}
	_, err := NewRegistry(p, p)
	assert.Error(t, err)
}
