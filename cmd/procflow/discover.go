package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/internal/engine"
	"github.com/procflow/procflow/internal/model"
	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/export"
	"github.com/procflow/procflow/pkg/parser"
	"github.com/procflow/procflow/pkg/render"
	"github.com/procflow/procflow/pkg/tui"
	"github.com/procflow/procflow/pkg/util"
)

// discover flags
var (
	inputFile     string
	formatFlag    string
	engineFlag    string
	minFrequency  float64
	maxActivities int
	parallelism   int
	minEdgeCount  int
	jsonOut       string
	xlsxOut       string
	dotOut        string
	dfgDotOut     string
	showTraces    bool
	showFootprint bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover a process model from an event log",
	Long: `Run the full Alpha Miner pipeline over an event log and print the
discovered model. Input may be a local file, "-" for stdin, or an
s3:// object; .gz inputs are decompressed transparently.

Examples:
  procflow discover -i events.csv
  procflow discover -i trace.xes.gz --min-frequency 0.05
  procflow discover -i s3://logs/erp.csv --json artifacts.json
  procflow discover -i big.csv --engine duckdb --dot model.dot`,
	RunE: runDiscover,
}

func init() {
	f := discoverCmd.Flags()
	f.StringVarP(&inputFile, "input", "i", "", "input event log (file, '-' or s3://)")
	f.StringVar(&formatFlag, "format", "", "input format: csv, xes, jsonl, xlsx (default: by extension)")
	f.StringVar(&engineFlag, "engine", "go", "aggregation engine: go or duckdb (csv files only)")
	f.Float64Var(&minFrequency, "min-frequency", -1, "prune traces below this frequency (0..1)")
	f.IntVar(&maxActivities, "max-activities", 0, "distinct-activity ceiling for enumeration")
	f.IntVar(&parallelism, "parallelism", 0, "workers for independent-set enumeration")
	f.IntVar(&minEdgeCount, "min-count", 1, "minimum edge count in the directly-follows view")
	f.StringVar(&jsonOut, "json", "", "write the artifact bundle as JSON to this path")
	f.StringVar(&xlsxOut, "xlsx", "", "write the artifacts as an Excel workbook to this path")
	f.StringVar(&dotOut, "dot", "", "write the process diagram as Graphviz DOT to this path")
	f.StringVar(&dfgDotOut, "dfg-dot", "", "write the directly-follows graph as DOT to this path")
	f.BoolVar(&showTraces, "traces", false, "print the trace dictionary")
	f.BoolVar(&showFootprint, "footprint", true, "print the footprint matrix")
	discoverCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	shutdown := setupTelemetry(ctx)
	defer shutdown()

	opts := discoveryOptions()
	res, err := discoverInput(ctx, inputFile, opts)
	if err != nil {
		return err
	}

	printResult(res)
	return writeArtifacts(res)
}

func discoverInputFormat(path string) (parser.Format, error) {
	format := parser.ParseFormat(formatFlag)
	if formatFlag != "" && format == parser.FormatUnknown {
		return parser.FormatUnknown, fmt.Errorf("unknown format %q", formatFlag)
	}
	if format == parser.FormatUnknown {
		format = util.DetectFormat(path)
	}
	if format == parser.FormatUnknown {
		return parser.FormatUnknown, fmt.Errorf("cannot detect format of %q, pass --format", path)
	}
	return format, nil
}

// discoveryOptions merges config defaults with explicit flags.
func discoveryOptions() discovery.Options {
	cfg := cfgManager.Get().Discovery
	opts := discovery.Options{
		MinFrequency:  cfg.MinFrequency,
		MaxActivities: cfg.MaxActivities,
		Parallelism:   cfg.Parallelism,
	}
	if minFrequency >= 0 {
		opts.MinFrequency = minFrequency
	}
	if maxActivities > 0 {
		opts.MaxActivities = maxActivities
	}
	if parallelism > 0 {
		opts.Parallelism = parallelism
	}
	return opts
}

func parserConfig() parser.Config {
	cfg := cfgManager.Get().Parser
	pcfg := parser.DefaultConfig()
	if cfg.CaseColumn != "" {
		pcfg.CaseColumn = cfg.CaseColumn
	}
	if cfg.ActivityColumn != "" {
		pcfg.ActivityColumn = cfg.ActivityColumn
	}
	if cfg.TimestampColumn != "" {
		pcfg.TimestampColumn = cfg.TimestampColumn
	}
	if cfg.ResourceColumn != "" {
		pcfg.ResourceColumn = cfg.ResourceColumn
	}
	if cfg.TimestampFormat != "" {
		pcfg.TimestampFormat = cfg.TimestampFormat
	}
	if cfg.Delimiter != "" {
		pcfg.Delimiter = cfg.Delimiter[0]
	}
	return pcfg
}

// discoverInput runs aggregation and discovery for one input path.
func discoverInput(ctx context.Context, path string, opts discovery.Options) (*discovery.Result, error) {
	if engineFlag == "duckdb" {
		td, err := engine.AggregateCSV(ctx, path, parserConfig())
		if err != nil {
			return nil, err
		}
		return discovery.Discover(ctx, td, opts)
	}

	format, err := discoverInputFormat(path)
	if err != nil {
		return nil, err
	}

	reader, cleanup, err := util.OpenInput(ctx, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	p, err := parser.New(format, parserConfig())
	if err != nil {
		return nil, err
	}

	spinner := tui.Spinner("parsing " + path)
	events, err := parser.Collect(ctx, p, reader)
	spinner.Finish()
	if err != nil {
		return nil, err
	}
	return discoverEvents(ctx, events, opts)
}

func discoverEvents(ctx context.Context, events []model.Event, opts discovery.Options) (*discovery.Result, error) {
	spinner := tui.Spinner("discovering model")
	defer spinner.Finish()
	return discovery.DiscoverEvents(ctx, events, opts)
}

func printResult(res *discovery.Result) {
	tui.PrintSummary(res)
	if showTraces {
		tui.PrintTraces(res.Traces)
	}
	if showFootprint {
		tui.PrintFootprint(res.Footprint)
	}
	tui.PrintTransitions(res.Maximal)
}

func writeArtifacts(res *discovery.Result) error {
	if jsonOut != "" {
		f, err := os.Create(jsonOut)
		if err != nil {
			return err
		}
		if err := export.WriteJSON(f, res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		tui.Success("wrote " + jsonOut)
	}
	if xlsxOut != "" {
		if err := export.WriteXLSX(xlsxOut, res); err != nil {
			return err
		}
		tui.Success("wrote " + xlsxOut)
	}
	if dotOut != "" {
		if err := os.WriteFile(dotOut, []byte(render.ProcessDiagram(res)), 0o644); err != nil {
			return err
		}
		tui.Success("wrote " + dotOut)
	}
	if dfgDotOut != "" {
		dot := render.DirectlyFollowsGraph(res.DirectlyFollows, minEdgeCount)
		if err := os.WriteFile(dfgDotOut, []byte(dot), 0o644); err != nil {
			return err
		}
		tui.Success("wrote " + dfgDotOut)
	}
	return nil
}
