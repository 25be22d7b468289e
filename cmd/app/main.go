package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/flashcite/internal"
	"github.com/starford/flashcite/internal/mcpserver"
	pkgconfig "github.com/starford/flashcite/pkg/config"
)

// loadConfig reads the config file over the defaults. A missing file is not
// an error, so a bare library directory can be served without one.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// stderrLogger keeps stdout free for MCP and JSON output.
func stderrLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithInvalidateThrottle(cmd.Duration("invalidate-throttle")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)
	slog.SetDefault(logger)

	svc, closeFn, err := internal.OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	if err := mcpserver.New(svc).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func runHighlight(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("source path is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	svc, closeFn, err := internal.OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	snap, err := svc.Snapshot(ctx, path)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", path, err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

// serveFlags are the flags of the HTTP server command.
func serveFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.DurationFlag{
			Name:    "invalidate-throttle",
			Usage:   "Minimum gap between highlights.invalidated SSE events",
			Value:   2 * time.Second,
			Sources: cli.EnvVars("APP_INVALIDATE_THROTTLE"),
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "flashcite",
		Usage:  "Flashcard citation index and highlight server for processed source documents",
		Action: run,
		Flags:  serveFlags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with the library watcher (default)",
				Action: run,
				Flags:  serveFlags(),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the highlight tools over MCP stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:      "highlight",
				Usage:     "Print the highlight snapshot of one source as JSON",
				ArgsUsage: "<path>",
				Action:    runHighlight,
				Flags:     []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
