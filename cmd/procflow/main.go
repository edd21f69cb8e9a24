// ProcFlow - Alpha Miner process discovery for event logs.
// Reads CSV, XES, JSONL and XLSX logs and discovers a process model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/config"
	"github.com/procflow/procflow/pkg/telemetry"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

var cfgManager = config.NewManager()

var rootCmd = &cobra.Command{
	Use:   "procflow",
	Short: "ProcFlow - discover process models from event logs",
	Long: `ProcFlow discovers a process model from recorded event logs using the
Alpha Miner algorithm: trace aggregation, directly-follows counting,
footprint classification, independent-set enumeration and transition
discovery.

Examples:
  procflow discover -i events.csv
  procflow discover -i trace.xes --min-frequency 0.05 --dot model.dot
  procflow generate --log simplest | procflow discover -i -
  procflow watch events.csv
  procflow serve`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfgManager.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// setupTelemetry installs the OTLP exporter when enabled. The returned
// shutdown func is safe to call unconditionally.
func setupTelemetry(ctx context.Context) func() {
	cfg := cfgManager.Get().Telemetry
	if !cfg.Enabled {
		return func() {}
	}
	tcfg := telemetry.DefaultConfig("procflow")
	tcfg.Endpoint = cfg.Endpoint
	tcfg.ServiceVersion = version
	exporter := telemetry.NewExporter(tcfg)
	if err := exporter.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "warning: telemetry disabled:", err)
		return func() {}
	}
	return func() {
		_ = exporter.Shutdown(context.Background())
	}
}
