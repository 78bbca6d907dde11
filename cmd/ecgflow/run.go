package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/skillsenselab/ecgflow/bootstrap"
	"github.com/skillsenselab/ecgflow/config"
	"github.com/skillsenselab/ecgflow/denoise"
	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/observability"
	"github.com/skillsenselab/ecgflow/sigio"
)

// runCommand executes the pipeline once on a recording from disk and writes
// the projection artifacts and summary into the output directory.
func runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file")
	sampleRate := fs.Float64("fs", 0, "override sampling rate in Hz")
	outputDir := fs.String("output-dir", "", "directory for result artifacts")
	memoryLean := fs.Bool("memory-lean", false, "retain only the original, reference, and final arrays")
	noMemoryLean := fs.Bool("no-memory-lean", false, "retain every stage array")
	writeIntermediates := fs.Bool("write-intermediates", false, "also write the reference and final arrays")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	pos := fs.Args()
	if len(pos) < 1 || len(pos) > 2 {
		fmt.Fprintln(os.Stderr, "usage: ecgflow run [flags] <signal-file> [gaps-file]")
		return 2
	}

	cfg := config.Default()
	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if err := config.Load(&cfg, opts...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *sampleRate > 0 {
		cfg.Pipeline.SampleRate = *sampleRate
	}
	if *memoryLean {
		cfg.Pipeline.MemoryLean = true
	}
	if *noMemoryLean {
		cfg.Pipeline.MemoryLean = false
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *writeIntermediates {
		cfg.Output.WriteIntermediates = true
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var telemetry *observability.Telemetry
	if cfg.Observability.Enabled {
		telemetry = observability.NewTelemetry(tracerConfig(&cfg), meterConfig(&cfg))
		if err := app.RegisterComponent(telemetry); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		signal, err := sigio.LoadSignal(pos[0])
		if err != nil {
			return err
		}
		var gaps []interval.Span
		if len(pos) == 2 {
			gaps, err = sigio.LoadSpans(pos[1], len(signal))
			if err != nil {
				return err
			}
		}

		ropts := []denoise.Option{denoise.WithLogger(app.Logger)}
		if telemetry != nil {
			ropts = append(ropts, denoise.WithMetrics(cfg.Name, telemetry.Metrics()))
		}
		runner, err := denoise.NewRunner(cfg.Pipeline, ropts...)
		if err != nil {
			return err
		}

		res, err := runner.Run(ctx, signal, gaps)
		if err != nil {
			return err
		}
		rep, err := denoise.BuildReport(res)
		if err != nil {
			return err
		}
		if err := sigio.WriteRunArtifacts(cfg.Output.Dir, res, rep, cfg.Output.WriteIntermediates); err != nil {
			return err
		}

		summary, err := sigio.Summary(res, rep)
		if err != nil {
			return err
		}
		out, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
