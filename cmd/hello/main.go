// Command hello is a static responder sharing the gateway's listener stack.
// It answers every request on :8080 with "hello world" and never calls out.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"edge-gateway/internal/config"
	"edge-gateway/internal/handler"
	"edge-gateway/internal/logging"
	"edge-gateway/internal/metrics"
	"edge-gateway/internal/server"
)

type cli struct {
	LogLevel  string `kong:"help='Log level: debug|info|warn|error.',env='LOG_LEVEL'"`
	LogFormat string `kong:"help='Log format: json|text.',env='LOG_FORMAT'"`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("hello"),
		kong.Description("Static hello world responder."),
	)

	cfg := config.Default()
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if args.LogFormat != "" {
		cfg.Log.Format = args.LogFormat
	}

	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		fx.Supply(cfg),
		fx.Provide(
			func(cfg *config.Config) *slog.Logger { return logging.New(cfg, os.Stdout) },
			metrics.New,
			handler.NewHelloHandler,
			server.NewEcho,
			server.NewServer,
		),
		fx.Invoke(handler.RegisterHelloRoutes, server.Register),
	).Run()
}
