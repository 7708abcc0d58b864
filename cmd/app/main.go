package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/laguz/internal"
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/lexicon"
	"github.com/starford/laguz/internal/mcpserver"
	"github.com/starford/laguz/internal/storage"
	pkgconfig "github.com/starford/laguz/pkg/config"
	"github.com/starford/laguz/pkg/sfm"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// serveMCP runs the MCP server over stdio against the configured vault.
func serveMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	parseOpts := cfg.Lexicon.Options()
	if err := index.Sync(db, store, parseOpts, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := lexicon.NewService(store, db, parseOpts)
	return mcpserver.New(svc, store).ServeStdio()
}

// formatFile parses an SFM file and prints (or rewrites) its normalized form.
func formatFile(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: laguz fmt [-w] <file>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := sfm.Parse(string(data), cfg.Lexicon.Dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out := sfm.Format(doc, cfg.Lexicon.Dialect)

	if cmd.Bool("write") {
		return os.WriteFile(path, []byte(out), 0o644)
	}
	_, err = fmt.Print(out)
	return err
}

// mapFile runs a YAML pipeline over an SFM file and prints the result.
func mapFile(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: laguz map --pipeline <pipeline.yaml> <file>")
	}

	pipelineData, err := os.ReadFile(cmd.String("pipeline"))
	if err != nil {
		return err
	}
	var pc sfm.PipelineConfig
	if err := yaml.Unmarshal(pipelineData, &pc); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	pipeline, err := pc.Build()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := sfm.Parse(string(data), cfg.Lexicon.Dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out, err := pipeline.Run(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Print(sfm.Format(out, cfg.Lexicon.Dialect))
	return err
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "laguz",
		Usage:  "Local-first SFM lexicon vault with full-text search, cross-reference graph, and transform pipelines",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: serveMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "fmt",
				Usage:  "Normalize an SFM file",
				Action: formatFile,
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{
						Name:    "write",
						Aliases: []string{"w"},
						Usage:   "Rewrite the file in place instead of printing",
					},
				},
			},
			{
				Name:   "map",
				Usage:  "Run a transform pipeline over an SFM file",
				Action: mapFile,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "pipeline",
						Aliases:  []string{"p"},
						Usage:    "Path to a YAML pipeline definition",
						Required: true,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
