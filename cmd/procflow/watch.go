package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/procflow/procflow/pkg/tui"
	"github.com/procflow/procflow/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file> [file...]",
	Short: "Re-discover whenever an event log changes",
	Long: `Watch one or more event log files and re-run discovery on every
change. Useful while iterating on a log export.

Example:
  procflow watch events.csv --min-frequency 0.05`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.Float64Var(&minFrequency, "min-frequency", -1, "prune traces below this frequency (0..1)")
	f.IntVar(&maxActivities, "max-activities", 0, "distinct-activity ceiling for enumeration")
	f.IntVar(&parallelism, "parallelism", 0, "workers for independent-set enumeration")
	f.BoolVar(&showFootprint, "footprint", true, "print the footprint matrix")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	shutdown := setupTelemetry(ctx)
	defer shutdown()

	opts := discoveryOptions()

	w, err := watch.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	w.OnChange = func(path string) error {
		tui.Title(fmt.Sprintf("%s changed at %s", path, time.Now().Format("15:04:05")))
		res, err := discoverInput(ctx, path, opts)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	}
	w.OnError = func(path string, err error) {
		if path == "" {
			tui.Error(err.Error())
			return
		}
		tui.Error(path + ": " + err.Error())
	}

	for _, path := range args {
		if err := w.Watch(path); err != nil {
			return err
		}
		// Initial pass so the watch starts from a known model.
		res, err := discoverInput(ctx, path, opts)
		if err != nil {
			return err
		}
		printResult(res)
	}

	tui.Muted(fmt.Sprintf("watching %d file(s), ctrl-c to stop", len(args)))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
