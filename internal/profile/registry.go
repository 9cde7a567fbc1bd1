package profile

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var bundles embed.FS

// Registry is the set of available profiles, keyed by id.
type Registry struct {
	byID  map[string]*Profile
	order []string
}

// Builtin loads the profiles embedded in the binary.
func Builtin() (*Registry, error) {
	return Load(bundles, "data")
}

// Load parses every *.yaml file under dir of fsys.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", dir, err)
	}
	var profiles []*Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("profile: read %s: %w", e.Name(), err)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("profile: %s: %w", e.Name(), err)
		}
		profiles = append(profiles, p)
	}
	return NewRegistry(profiles...)
}

// Parse decodes and validates a single YAML bundle.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewRegistry builds a registry; duplicate ids are rejected.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("profile: duplicate id %q", p.ID)
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("profile: no profiles loaded")
	}
	sort.Strings(r.order)
	return r, nil
}

// Get returns the profile with the given id.
func (r *Registry) Get(id string) (*Profile, error) {
	if p, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownProfile, id, strings.Join(r.order, ", "))
}

// All returns every profile ordered by id.
func (r *Registry) All() []*Profile {
	out := make([]*Profile, len(r.order))
	for i, id := range r.order {
		out[i] = r.byID[id]
	}
	return out
}
