package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests   atomic.Int64
	SearchFailures   atomic.Int64
	LinkedInRequests atomic.Int64
	LinkedInErrors   atomic.Int64
	RemotiveRequests atomic.Int64
	RemotiveErrors   atomic.Int64
	DetailRequests   atomic.Int64
	PostingsKept     atomic.Int64
	PostingsExcluded atomic.Int64
	CVUploads        atomic.Int64
	CVFailures       atomic.Int64
	ReportsExported  atomic.Int64
}

var metricKeys = []string{
	"search_requests", "search_failures",
	"linkedin_requests", "linkedin_errors",
	"remotive_requests", "remotive_errors",
	"detail_requests",
	"postings_kept", "postings_excluded",
	"cv_uploads", "cv_failures",
	"reports_exported",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":   metrics.SearchRequests.Load(),
		"search_failures":   metrics.SearchFailures.Load(),
		"linkedin_requests": metrics.LinkedInRequests.Load(),
		"linkedin_errors":   metrics.LinkedInErrors.Load(),
		"remotive_requests": metrics.RemotiveRequests.Load(),
		"remotive_errors":   metrics.RemotiveErrors.Load(),
		"detail_requests":   metrics.DetailRequests.Load(),
		"postings_kept":     metrics.PostingsKept.Load(),
		"postings_excluded": metrics.PostingsExcluded.Load(),
		"cv_uploads":        metrics.CVUploads.Load(),
		"cv_failures":       metrics.CVFailures.Load(),
		"reports_exported":  metrics.ReportsExported.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrSearchRequests()   { metrics.SearchRequests.Add(1) }
func IncrSearchFailures()   { metrics.SearchFailures.Add(1) }
func IncrLinkedInRequests() { metrics.LinkedInRequests.Add(1) }
func IncrLinkedInErrors()   { metrics.LinkedInErrors.Add(1) }
func IncrRemotiveRequests() { metrics.RemotiveRequests.Add(1) }
func IncrRemotiveErrors()   { metrics.RemotiveErrors.Add(1) }
func IncrDetailRequests()   { metrics.DetailRequests.Add(1) }
func IncrCVUploads()        { metrics.CVUploads.Add(1) }
func IncrCVFailures()       { metrics.CVFailures.Add(1) }
func IncrReportsExported()  { metrics.ReportsExported.Add(1) }

// AddFilterCounts records how many postings a filter pass kept and dropped.
func AddFilterCounts(kept, excluded int) {
	metrics.PostingsKept.Add(int64(kept))
	metrics.PostingsExcluded.Add(int64(excluded))
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
