package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FetchTimeout         time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = LinkedIn falls back to net/http
	Sites                []string       // enabled job providers: linkedin, remotive
	LinkedInRPS          float64        // LinkedIn guest API requests per second
	DefaultLocation      string
	DefaultProfile       string
	ResultsWanted        int
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	SessionTTL           time.Duration
	ReportDir            string // empty = reports are only returned inline
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	cfg = c
	Cfg = &cfg
}
