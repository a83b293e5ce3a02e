package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"edge-gateway/internal/client"
	"edge-gateway/internal/config"
	"edge-gateway/internal/handler"
	"edge-gateway/internal/logging"
	"edge-gateway/internal/metrics"
	"edge-gateway/internal/server"
	"edge-gateway/internal/service"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli, err := config.ParseCLI(os.Args[1:], fmt.Sprintf("%s (%s, %s)", version, commit, date),
		os.Stdout, os.Stderr, os.Exit)
	if err != nil {
		config.PrintUsage(os.Stderr, err)
		os.Exit(1)
	}

	fx.New(options(cli, os.Stdout)).Run()
}

// options wires the gateway. Log output goes to logOut.
func options(cli *config.CLI, logOut io.Writer) fx.Option {
	return fx.Options(
		fx.WithLogger(newFxLogger),
		fx.Provide(
			func() *config.CLI { return cli },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			func(cfg *config.Config) *slog.Logger { return logging.New(cfg, logOut) },
			metrics.New,
			client.NewUpstreamClient,
			service.NewForwardService,
			handler.NewForwardHandler,
			handler.NewHealthHandler,
			server.NewEcho,
			server.NewServer,
			server.NewAdmin,
		),
		// Start hooks run in order: the forwarding listener goes last so
		// "ready" is only printed once everything else is up.
		fx.Invoke(
			handler.RegisterRoutes,
			warnConfigPermissions,
			server.RegisterAdmin,
			server.Register,
		),
	)
}

// newFxLogger routes fx lifecycle events into slog below the default level.
func newFxLogger(logger *slog.Logger) fxevent.Logger {
	l := &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
	l.UseLogLevel(slog.LevelDebug)
	return l
}

func warnConfigPermissions(cfg *config.Config, logger *slog.Logger) {
	cfg.WarnPermissions(logger)
}
