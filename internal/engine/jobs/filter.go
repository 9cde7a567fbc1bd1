package jobs

import "strings"

// Excluder drops postings whose title contains an exclusion keyword.
// Matching is a case-insensitive substring test.
type Excluder struct {
	keywords []string
}

// NewExcluder lowercases the keywords; blanks are ignored.
func NewExcluder(keywords []string) *Excluder {
	e := &Excluder{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			e.keywords = append(e.keywords, k)
		}
	}
	return e
}

// Excluded reports the first keyword found in title.
// An empty title never matches.
func (e *Excluder) Excluded(title string) (string, bool) {
	if title == "" {
		return "", false
	}
	lower := strings.ToLower(title)
	for _, k := range e.keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

// Filter returns the postings that pass and the number removed.
// The result is never nil, and kept postings are copied unchanged in input order.
func (e *Excluder) Filter(postings []Posting) ([]Posting, int) {
	kept := make([]Posting, 0, len(postings))
	for _, p := range postings {
		if _, ok := e.Excluded(p.Title); ok {
			continue
		}
		kept = append(kept, p)
	}
	return kept, len(postings) - len(kept)
}

// FilterTitles is shorthand for NewExcluder(exclusions).Filter(postings).
func FilterTitles(postings []Posting, exclusions []string) ([]Posting, int) {
	return NewExcluder(exclusions).Filter(postings)
}
