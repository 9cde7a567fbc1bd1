package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

// LinkedIn guest API: HTML job cards, no auth.
const linkedInGuestAPI = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

const (
	linkedInPageSize = 10 // cards per guest API page
	linkedInMaxPages = 5
	kmPerMile        = 1.609344
)

// jobIDRe extracts the numeric job id from /jobs/view/<id> and /jobs/view/<slug>-<id>.
var jobIDRe = regexp.MustCompile(`/jobs/view/[^?]*?(\d{7,})`)

// ExtractJobID extracts the LinkedIn job id from a URL.
func ExtractJobID(jobURL string) string {
	if m := jobIDRe.FindStringSubmatch(jobURL); m != nil {
		return m[1]
	}
	return ""
}

// LinkedIn searches the guest job API.
type LinkedIn struct {
	// SearchURL overrides the guest API endpoint.
	SearchURL string
	HTTP      *http.Client

	// browser is preferred when set; LinkedIn rejects most non-browser TLS fingerprints.
	browser browserDo
	limiter *rate.Limiter
}

// browserDo issues one request and returns body and status.
type browserDo func(method, target string, headers map[string]string, body io.Reader) ([]byte, int, error)

func stealthDo(bc *engine.BrowserClient) browserDo {
	return func(method, target string, headers map[string]string, body io.Reader) ([]byte, int, error) {
		data, _, status, err := bc.Do(method, target, headers, body)
		return data, status, err
	}
}

// NewLinkedIn returns a provider throttled to rps requests per second (0 = unlimited).
func NewLinkedIn(rps float64, browser *engine.BrowserClient) *LinkedIn {
	l := &LinkedIn{SearchURL: linkedInGuestAPI}
	if browser != nil {
		l.browser = stealthDo(browser)
	}
	if rps > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return l
}

// Search pages through the guest API until MaxResults cards are collected.
// A failure after the first page returns the cards gathered so far with the error.
func (l *LinkedIn) Search(ctx context.Context, q Query) ([]Posting, error) {
	want := q.MaxResults
	if want <= 0 {
		want = DefaultLimit
	}

	var out []Posting
	for page := 0; page < linkedInMaxPages && len(out) < want; page++ {
		u, err := l.searchURL(q, page*linkedInPageSize)
		if err != nil {
			return nil, err
		}
		engine.IncrLinkedInRequests()
		body, err := l.fetch(ctx, u)
		if err != nil {
			engine.IncrLinkedInErrors()
			return out, fmt.Errorf("linkedin page %d: %w", page, err)
		}
		cards := parseLinkedInHTML(string(body))
		if len(cards) == 0 {
			break
		}
		out = append(out, cards...)
		if len(cards) < linkedInPageSize {
			break
		}
	}
	if len(out) > want {
		out = out[:want]
	}
	slog.Debug("linkedin: search complete", slog.String("term", q.Term), slog.Int("results", len(out)))
	return out, nil
}

func (l *LinkedIn) searchURL(q Query, start int) (string, error) {
	base := l.SearchURL
	if base == "" {
		base = linkedInGuestAPI
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	v := u.Query()
	v.Set("keywords", q.Term)
	v.Set("sortBy", "DD")
	v.Set("start", strconv.Itoa(start))
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.RecencyHours > 0 {
		v.Set("f_TPR", "r"+strconv.Itoa(q.RecencyHours*3600))
	}
	v.Set("distance", strconv.Itoa(kmToMiles(max(q.DistanceKm, 0))))
	u.RawQuery = v.Encode()
	return u.String(), nil
}

func kmToMiles(km int) int {
	return int(math.Round(float64(km) / kmPerMile))
}

// fetch issues one throttled GET through the browser client, or net/http as fallback.
func (l *LinkedIn) fetch(ctx context.Context, target string) ([]byte, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	timeout := engine.Cfg.FetchTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if l.browser != nil {
		headers := engine.ChromeHeaders()
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9"
		headers["referer"] = "https://www.linkedin.com/"
		return engine.RetryDo(ctx, engine.DefaultRetryConfig, func() ([]byte, error) {
			data, status, err := l.browser(http.MethodGet, target, headers, nil)
			if err != nil {
				return nil, err
			}
			if status != http.StatusOK {
				return nil, &engine.StatusError{StatusCode: status}
			}
			return data, nil
		})
	}

	client := l.HTTP
	if client == nil {
		client = engine.Cfg.HTTPClient
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
		return client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &engine.StatusError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 512*1024))
}

// Details fetches a job page and renders its JSON-LD JobPosting block as markdown.
// Results are cached by job id, so slug and host variants share an entry.
func (l *LinkedIn) Details(ctx context.Context, jobURL string) (string, error) {
	key := engine.CacheKey("linkedin-details", jobURL)
	if id := ExtractJobID(jobURL); id != "" {
		key = engine.CacheKey("linkedin-details", id)
	}
	if cached, ok := engine.CacheGet(ctx, key); ok {
		return string(cached), nil
	}

	engine.IncrDetailRequests()
	body, err := l.fetch(ctx, jobURL)
	if err != nil {
		return "", fmt.Errorf("linkedin details: %w", err)
	}
	page := string(body)

	details := extractJSONLD(page)
	if details == "" {
		if descHTML := extractJobDescription(page); descHTML != "" {
			if md, err := htmltomarkdown.ConvertString(descHTML); err == nil {
				details = strings.TrimSpace(md)
			}
		}
	}
	if details == "" {
		return "", errors.New("linkedin details: no description found")
	}

	engine.CacheSetFor(ctx, key, []byte(details), engine.DetailsTTL)
	return details, nil
}

// parseLinkedInHTML extracts postings from a guest API page.
func parseLinkedInHTML(body string) []Posting {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var out []Posting
	for _, li := range findElements(doc, "li") {
		if p := parseJobCard(li); p.Title != "" && p.URL != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseJobCard(li *html.Node) Posting {
	p := Posting{Source: "linkedin"}

	if link := findByClass(li, "base-card__full-link"); link != nil {
		if href := getAttr(link, "href"); href != "" {
			p.URL = strings.TrimSpace(strings.SplitN(href, "?", 2)[0])
		}
	}
	if n := findByClass(li, "base-search-card__title"); n != nil {
		p.Title = strings.TrimSpace(textContent(n))
	}
	if n := findByClass(li, "base-search-card__subtitle"); n != nil {
		p.Company = strings.TrimSpace(textContent(n))
	}
	if n := findByClass(li, "job-search-card__location"); n != nil {
		p.Location = strings.TrimSpace(textContent(n))
	}
	// Prefer the ISO datetime attribute over the relative label ("2 days ago").
	if n := findByClass(li, "job-search-card__listdate"); n != nil {
		if dt := getAttr(n, "datetime"); dt != "" {
			p.DatePosted = strings.TrimSpace(dt)
		} else {
			p.DatePosted = strings.TrimSpace(textContent(n))
		}
	}
	return p
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, className string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == className {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// findByClass returns the first element (depth-first) carrying className.
func findByClass(n *html.Node, className string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, className) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, className); found != nil {
			return found
		}
	}
	return nil
}

func findElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findElements(c, tag)...)
	}
	return out
}

// jobPostingLD is the subset of schema.org/JobPosting rendered in details.
type jobPostingLD struct {
	Type               string `json:"@type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	EmploymentType     any    `json:"employmentType"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation struct {
		Address struct {
			Locality string `json:"addressLocality"`
			Country  string `json:"addressCountry"`
		} `json:"address"`
	} `json:"jobLocation"`
	BaseSalary struct {
		Currency string `json:"currency"`
		Value    struct {
			Min float64 `json:"minValue"`
			Max float64 `json:"maxValue"`
		} `json:"value"`
	} `json:"baseSalary"`
}

// extractJSONLD finds the ld+json script holding a JobPosting and formats it.
func extractJSONLD(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}
	for _, s := range findElements(doc, "script") {
		if getAttr(s, "type") != "application/ld+json" || s.FirstChild == nil {
			continue
		}
		var ld jobPostingLD
		if err := json.Unmarshal([]byte(s.FirstChild.Data), &ld); err != nil || ld.Type != "JobPosting" {
			continue
		}
		return formatJobPosting(ld)
	}
	return ""
}

func formatJobPosting(ld jobPostingLD) string {
	var parts []string
	if ld.Title != "" {
		parts = append(parts, "**Title:** "+ld.Title)
	}
	if ld.HiringOrganization.Name != "" {
		parts = append(parts, "**Company:** "+ld.HiringOrganization.Name)
	}
	var loc []string
	for _, s := range []string{ld.JobLocation.Address.Locality, ld.JobLocation.Address.Country} {
		if s != "" {
			loc = append(loc, s)
		}
	}
	if len(loc) > 0 {
		parts = append(parts, "**Location:** "+strings.Join(loc, ", "))
	}
	switch t := ld.EmploymentType.(type) {
	case string:
		parts = append(parts, "**Type:** "+t)
	case []any:
		var types []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
		if len(types) > 0 {
			parts = append(parts, "**Type:** "+strings.Join(types, ", "))
		}
	}
	if v := ld.BaseSalary.Value; v.Min > 0 || v.Max > 0 {
		parts = append(parts, fmt.Sprintf("**Salary:** %.0f-%.0f %s", v.Min, v.Max, ld.BaseSalary.Currency))
	}
	if ld.Description != "" {
		desc := ld.Description
		if md, err := htmltomarkdown.ConvertString(desc); err == nil {
			desc = md
		}
		parts = append(parts, "**Description:**\n"+engine.TruncateRunes(strings.TrimSpace(desc), 3000, "..."))
	}
	return strings.Join(parts, "\n\n")
}

// extractJobDescription returns the inner HTML of the description block.
func extractJobDescription(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}
	for _, cls := range []string{"show-more-less-html__markup", "description__text", "job-description"} {
		if n := findByClass(doc, cls); n != nil {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				_ = html.Render(&sb, c)
			}
			return sb.String()
		}
	}
	return ""
}
