package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/skillsenselab/ecgflow/bootstrap"
	"github.com/skillsenselab/ecgflow/component"
	"github.com/skillsenselab/ecgflow/config"
	"github.com/skillsenselab/ecgflow/denoise"
	"github.com/skillsenselab/ecgflow/observability"
	"github.com/skillsenselab/ecgflow/server"
)

// serveCommand starts the HTTP API and blocks until a shutdown signal.
func serveCommand(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file")
	host := fs.String("host", "", "listen host override")
	port := fs.Int("port", 0, "listen port override")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
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
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
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

	srv := server.New(cfg.Server, app.Logger)

	// The runner is built after telemetry starts so its instruments exist,
	// and routes must be mounted before the listener binds. A Func component
	// between the two holds that ordering.
	api := component.NewFunc("run-api", func(ctx context.Context) error {
		ropts := []denoise.Option{denoise.WithLogger(app.Logger)}
		if telemetry != nil {
			ropts = append(ropts, denoise.WithMetrics(cfg.Name, telemetry.Metrics()))
		}
		runner, err := denoise.NewRunner(cfg.Pipeline, ropts...)
		if err != nil {
			return err
		}
		server.NewRunService(runner, server.NewRunStore()).Register(srv.GinEngine())
		return nil
	}, nil)
	if err := app.RegisterComponent(api); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
