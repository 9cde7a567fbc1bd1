// go_jobdash: job-seeker dashboard MCP server.
//
// Role profiles (finance, communication), job search over LinkedIn and
// Remotive, interview self-assessment, skill gap analysis, CV ingestion
// and PDF report export, exposed as MCP tools over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobdash/internal/engine"
	"github.com/anatolykoptev/go_jobdash/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobdash/internal/jobserver"
	"github.com/anatolykoptev/go_jobdash/internal/profile"
	"github.com/anatolykoptev/go_jobdash/internal/session"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	mcpPort := env.Str("MCP_PORT", "8893")

	initEngine()
	cfg := engine.Cfg

	profiles, err := profile.Builtin()
	if err != nil {
		slog.Error("load profiles", slog.Any("error", err))
		os.Exit(1)
	}
	def, err := profiles.Get(cfg.DefaultProfile)
	if err != nil {
		slog.Error("default profile", slog.String("profile", cfg.DefaultProfile), slog.Any("error", err))
		os.Exit(1)
	}

	shortlist, err := jobs.OpenShortlist()
	if err != nil {
		slog.Error("open shortlist", slog.Any("error", err))
		os.Exit(1)
	}
	defer shortlist.Close()

	searcher, err := jobs.NewSearcher(cfg)
	if err != nil {
		slog.Error("job providers", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &jobserver.Server{
		Profiles:        profiles,
		Shortlist:       shortlist,
		Searcher:        searcher,
		Details:         searcher,
		DefaultLocation: cfg.DefaultLocation,
		DefaultLimit:    cfg.ResultsWanted,
		ReportDir:       cfg.ReportDir,
	}
	srv.Sessions = session.NewStore(def, cfg.SessionTTL, srv.OnSessionDropped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Sessions.Run(ctx, 0)

	slog.Info("starting go_jobdash",
		slog.String("port", mcpPort),
		slog.String("default_profile", def.ID),
		slog.Any("sites", cfg.Sites),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_jobdash",
		Version: version,
	}, nil)

	jobserver.RegisterTools(server, srv)
	slog.Info("tools registered", slog.Int("count", jobserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_jobdash",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		Sites:                env.List("JOB_SITES", "linkedin,remotive"),
		LinkedInRPS:          env.Float("LINKEDIN_RPS", 0.5),
		DefaultLocation:      env.Str("DEFAULT_LOCATION", "Paris, France"),
		DefaultProfile:       env.Str("DEFAULT_PROFILE", "finance"),
		ResultsWanted:        env.Int("RESULTS_WANTED", jobs.DefaultLimit),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 500),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
		SessionTTL:           env.Duration("SESSION_TTL", 2*time.Hour),
		ReportDir:            env.Str("REPORT_DIR", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := engine.NewBrowserClient(15, opts...)
	if err != nil {
		slog.Warn("stealth client init failed, LinkedIn uses net/http", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
