package jobs

import (
	"strings"

	"github.com/anatolykoptev/go_jobdash/internal/profile"
)

// Search window bounds.
const (
	DefaultDays       = 2
	MaxDays           = 30
	DefaultDistanceKm = 20
	MaxDistanceKm     = 100
	DefaultLimit      = 20
	MaxLimit          = 50
)

// BuildQuery turns a profile role, a location and a recency window into a provider query.
// Zero days and limit pick the defaults; a nil distance picks the default
// radius and an explicit 0 keeps the search to the city itself.
// Out-of-range values are clamped.
func BuildQuery(p *profile.Profile, roleName, location string, days int, distanceKm *int, limit int, defaultLocation string) (Query, error) {
	role, err := p.Role(roleName)
	if err != nil {
		return Query{}, err
	}

	location = strings.TrimSpace(location)
	if location == "" {
		location = defaultLocation
	}

	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)

	km := DefaultDistanceKm
	if distanceKm != nil {
		km = min(max(*distanceKm, 0), MaxDistanceKm)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	return Query{
		Term:         role.Query,
		Location:     location,
		RecencyHours: days * 24,
		DistanceKm:   km,
		MaxResults:   limit,
	}, nil
}
