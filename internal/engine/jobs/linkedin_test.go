package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
)

func TestExtractJobID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"clean numeric URL", "https://www.linkedin.com/jobs/view/4335742219", "4335742219"},
		{"slug URL", "https://fr.linkedin.com/jobs/view/analyste-credit-at-natixis-4335742219", "4335742219"},
		{"URL with query params", "https://www.linkedin.com/jobs/view/4335742219?trk=jobs_biz", "4335742219"},
		{"invalid URL", "https://www.linkedin.com/jobs/search/", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJobID(tt.url); got != tt.want {
				t.Errorf("ExtractJobID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func linkedInCard(id int, title, company, location, date string) string {
	return fmt.Sprintf(`<li>
<div class="base-card">
  <a class="base-card__full-link" href="https://fr.linkedin.com/jobs/view/job-%d?trk=test"><span class="sr-only">%s</span></a>
  <div class="base-search-card__info">
    <h3 class="base-search-card__title">%s</h3>
    <h4 class="base-search-card__subtitle"><a href="/company/x">%s</a></h4>
    <div class="job-search-card__location">%s</div>
    <time class="job-search-card__listdate" datetime="%s">il y a 1 jour</time>
  </div>
</div>
</li>`, id, title, title, company, location, date)
}

func TestParseLinkedInHTML(t *testing.T) {
	body := "<ul>" +
		linkedInCard(4335742219, "Analyste LCB-FT", "BNP Paribas", "Paris, Île-de-France, France", "2026-10-13") +
		linkedInCard(9876543210, "Credit Analyst", "Natixis", "Paris", "") +
		`<li><div class="base-card"><h3 class="base-search-card__title">No link</h3></div></li>` +
		"</ul>"

	got := parseLinkedInHTML(body)
	if len(got) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(got))
	}

	p := got[0]
	if p.Title != "Analyste LCB-FT" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Company != "BNP Paribas" {
		t.Errorf("Company = %q (inner <a> should be flattened)", p.Company)
	}
	if p.Location != "Paris, Île-de-France, France" {
		t.Errorf("Location = %q", p.Location)
	}
	if p.URL != "https://fr.linkedin.com/jobs/view/job-4335742219" {
		t.Errorf("URL = %q, query string should be stripped", p.URL)
	}
	if p.DatePosted != "2026-10-13" {
		t.Errorf("DatePosted = %q", p.DatePosted)
	}
	if p.Source != "linkedin" {
		t.Errorf("Source = %q", p.Source)
	}
	if got[1].DatePosted != "il y a 1 jour" {
		t.Errorf("relative date fallback = %q", got[1].DatePosted)
	}
}

func TestHTMLHelpers(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader(`<div><a href="https://example.com" class="link main">x</a><span class="target">Found</span> <b>World</b></div>`))

	a := findElements(doc, "a")[0]
	if got := getAttr(a, "href"); got != "https://example.com" {
		t.Errorf("getAttr(href) = %q", got)
	}
	if got := getAttr(a, "missing"); got != "" {
		t.Errorf("getAttr(missing) = %q, want empty", got)
	}
	if !hasClass(a, "main") || hasClass(a, "mai") {
		t.Error("hasClass should match whole class names only")
	}
	if n := findByClass(doc, "target"); n == nil || textContent(n) != "Found" {
		t.Error("findByClass(target) failed")
	}
	if n := findByClass(doc, "nonexistent"); n != nil {
		t.Error("expected nil for nonexistent class")
	}
	div := findElements(doc, "div")[0]
	if got := textContent(div); got != "xFound World" {
		t.Errorf("textContent = %q", got)
	}
}

func TestLinkedInSearchURL(t *testing.T) {
	l := NewLinkedIn(0, nil)
	u, err := l.searchURL(Query{Term: "Analyste ESG OR ISR", Location: "Paris, France", RecencyHours: 48, DistanceKm: 40}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"keywords=Analyste+ESG+OR+ISR", "f_TPR=r172800", "distance=25", "start=10", "sortBy=DD", "location=Paris%2C+France"} {
		if !strings.Contains(u, want) {
			t.Errorf("URL %q missing %q", u, want)
		}
	}
}

func TestLinkedInSearchURLZeroDistance(t *testing.T) {
	l := NewLinkedIn(0, nil)
	u, err := l.searchURL(Query{Term: "Analyste ESG", Location: "Lyon", DistanceKm: 0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u, "distance=0") {
		t.Errorf("URL %q should pin the radius to 0", u)
	}
}

func TestLinkedInBrowserFetch(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCards int
		wantCode  int
	}{
		{"ok", http.StatusOK, linkedInCard(4335742219, "Analyste crédit", "Natixis", "Paris", "2026-10-13"), 1, 0},
		{"not found", http.StatusNotFound, "", 0, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotReferer string
			l := NewLinkedIn(0, nil)
			l.HTTP = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("net/http fallback used")
			})}
			l.browser = func(method, target string, headers map[string]string, _ io.Reader) ([]byte, int, error) {
				gotMethod, gotReferer = method, headers["referer"]
				return []byte(tt.body), tt.status, nil
			}

			got, err := l.Search(context.Background(), Query{Term: "Analyste crédit", MaxResults: 5})
			if gotMethod != http.MethodGet || gotReferer != "https://www.linkedin.com/" {
				t.Errorf("browser request method=%q referer=%q", gotMethod, gotReferer)
			}
			if len(got) != tt.wantCards {
				t.Errorf("got %d postings, want %d", len(got), tt.wantCards)
			}
			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Search: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), fmt.Sprintf("status %d", tt.wantCode)) {
				t.Errorf("err = %v, want status %d", err, tt.wantCode)
			}
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestLinkedInDetailsCachedByJobID(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Minute)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `<script type="application/ld+json">{"@type":"JobPosting","title":"Analyste KYC"}</script>`)
	}))
	defer srv.Close()

	l := NewLinkedIn(0, nil)
	l.HTTP = srv.Client()

	for _, u := range []string{
		srv.URL + "/jobs/view/analyste-kyc-at-bnp-7766554433",
		srv.URL + "/jobs/view/7766554433?trk=guest",
	} {
		got, err := l.Details(context.Background(), u)
		if err != nil {
			t.Fatalf("Details(%s): %v", u, err)
		}
		if !strings.Contains(got, "Analyste KYC") {
			t.Errorf("Details(%s) = %q", u, got)
		}
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("server calls = %d, want 1 (same job id)", c)
	}
}

func TestLinkedInSearchPaging(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var sb strings.Builder
		n := linkedInPageSize
		if r.URL.Query().Get("start") == "10" {
			n = 3
		}
		for i := 0; i < n; i++ {
			id := 1000000 + len(r.URL.Query().Get("start"))*100 + i
			sb.WriteString(linkedInCard(id, fmt.Sprintf("Analyste %d", id), "Amundi", "Paris", "2026-10-13"))
		}
		fmt.Fprint(w, sb.String())
	}))
	defer srv.Close()

	l := NewLinkedIn(0, nil)
	l.SearchURL = srv.URL
	l.HTTP = srv.Client()

	got, err := l.Search(context.Background(), Query{Term: "Analyste", MaxResults: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 13 {
		t.Errorf("got %d postings, want 13", len(got))
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("server calls = %d, want 2 (short page ends paging)", c)
	}

	got, err = l.Search(context.Background(), Query{Term: "Analyste", MaxResults: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("MaxResults not honoured: %d", len(got))
	}
}

func TestLinkedInSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	l := NewLinkedIn(0, nil)
	l.SearchURL = srv.URL
	l.HTTP = srv.Client()

	got, err := l.Search(context.Background(), Query{Term: "Analyste"})
	if err == nil {
		t.Fatal("expected error on 403")
	}
	if len(got) != 0 {
		t.Errorf("expected no postings, got %d", len(got))
	}
}

func TestLinkedInDetails(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@type":"JobPosting","title":"Analyste crédit","description":"<p>Analyse des <b>dossiers</b></p>","hiringOrganization":{"name":"BPCE"},"employmentType":["FULL_TIME"],"jobLocation":{"address":{"addressLocality":"Paris","addressCountry":"FR"}}}</script>
</head><body></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	l := NewLinkedIn(0, nil)
	l.HTTP = srv.Client()

	got, err := l.Details(context.Background(), srv.URL+"/jobs/view/1234567")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	for _, want := range []string{"**Title:** Analyste crédit", "**Company:** BPCE", "**Location:** Paris, FR", "FULL_TIME", "**dossiers**"} {
		if !strings.Contains(got, want) {
			t.Errorf("details missing %q:\n%s", want, got)
		}
	}
}

func TestExtractJobDescriptionFallback(t *testing.T) {
	page := `<html><body><div class="show-more-less-html__markup"><p>Missions <i>variées</i></p></div></body></html>`
	if extractJSONLD(page) != "" {
		t.Error("expected no JSON-LD")
	}
	got := extractJobDescription(page)
	if !strings.Contains(got, "<p>Missions <i>variées</i></p>") {
		t.Errorf("extractJobDescription = %q", got)
	}
}
