package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/cache"
	"github.com/procflow/procflow/pkg/server"
	"github.com/procflow/procflow/pkg/tui"
)

// serve flags
var (
	serveHost string
	servePort int
	noCache   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve discovery over HTTP",
	Long: `Start the HTTP API. Upload a log to POST /api/discover, poll
GET /api/jobs/{id} for the result. When the result cache is enabled in
the config (or via PROCFLOW_REDIS), identical uploads are answered from
Redis.

Example:
  procflow serve --port 9090`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveHost, "host", "", "listen host (default: from config)")
	f.IntVar(&servePort, "port", 0, "listen port (default: from config)")
	f.BoolVar(&noCache, "no-cache", false, "disable the Redis result cache")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	shutdown := setupTelemetry(ctx)
	defer shutdown()

	cfg := cfgManager.Get()
	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled && !noCache {
		ccfg := cache.DefaultConfig(cfg.Cache.Address)
		ccfg.Password = cfg.Cache.Password
		ccfg.Database = cfg.Cache.Database
		if cfg.Cache.TTL > 0 {
			ccfg.TTL = cfg.Cache.TTL
		}
		c, err := cache.New(ccfg)
		if err != nil {
			tui.Error("cache unavailable, continuing without: " + err.Error())
		} else {
			resultCache = c
			defer resultCache.Close()
			tui.Muted("result cache: " + cfg.Cache.Address)
		}
	}

	srv := server.New(parserConfig(), discoveryOptions(), resultCache)

	addr := fmt.Sprintf("%s:%d", host, port)
	tui.Title("listening on http://" + addr)
	return srv.ListenAndServe(ctx, addr)
}
