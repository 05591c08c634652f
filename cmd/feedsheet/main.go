package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"feedsheet/internal/config"
	"feedsheet/internal/storage"
	"feedsheet/internal/tools"
	"feedsheet/internal/types"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "feedsheet",
		Short: "Feed collector with spreadsheet export",
		Long: `feedsheet drives a headless browser over a social feed, extracts posts
and profiles from the rendered DOM, and appends them safely into a
spreadsheet backend.

Features:
  • Ordered selector fallback chains that survive markup churn
  • Heuristic post detection when every structured selector fails
  • Scroll-bounded collection with within-run deduplication
  • Append-safe spreadsheet writes (header on first write, never overwrites)
  • Tool HTTP API for assistant hosts
  • Optional JSONL / MongoDB batch archives`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd runs the tool HTTP server.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool API",
		Long:  "Open the browser session and expose the tool surface over HTTP.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := tools.NewService(cfg, logger)
	defer service.Close()

	if err := service.OpenBrowser(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}

	if cfg.Sheets.Backend == "rest" && cfg.Sheets.SpreadsheetID == "" {
		logger.Warn("no spreadsheet configured, export tools will report not ready")
	} else if err := service.ConnectSheets(ctx); err != nil {
		return fmt.Errorf("connect sheets: %w", err)
	}

	archive, err := buildArchive(cfg, logger)
	if err != nil {
		return fmt.Errorf("configure archive: %w", err)
	}
	if archive != nil {
		service.SetArchive(archive)
	}

	server := tools.NewServer(cfg.Server.Port, service, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

// collectCmd runs one collection (and optionally an export) without the
// server.
func collectCmd() *cobra.Command {
	var (
		count     int
		searchFor string
		pageURL   string
		doExport  bool
		worksheet string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect posts once and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Sheets.Backend = "memory"
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			service := tools.NewService(cfg, logger)
			defer service.Close()

			if err := service.OpenBrowser(); err != nil {
				return fmt.Errorf("open browser: %w", err)
			}

			var result *tools.CollectResult
			switch {
			case searchFor != "":
				result, err = service.Search(ctx, tools.SearchRequest{Query: searchFor, MaxResults: count})
			default:
				if pageURL != "" {
					if err := service.Navigate(pageURL); err != nil {
						return err
					}
				}
				result, err = service.CollectPosts(ctx, tools.CollectRequest{MaxCount: count})
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Posts); err != nil {
				return err
			}

			if doExport {
				if err := service.ConnectSheets(ctx); err != nil {
					return fmt.Errorf("connect sheets: %w", err)
				}
				wr, err := service.ExportPosts(ctx, tools.ExportRequest{Worksheet: worksheet})
				if err != nil {
					return err
				}
				logger.Info("export done",
					"worksheet", wr.Worksheet,
					"start_row", wr.StartRow,
					"new_rows", wr.NewRows,
					"total_rows", wr.TotalRows,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of posts to collect (0 = config default)")
	cmd.Flags().StringVarP(&searchFor, "search", "q", "", "collect from a live search instead of the home feed")
	cmd.Flags().StringVar(&pageURL, "url", "", "collect from a specific page URL")
	cmd.Flags().BoolVar(&doExport, "export", false, "export the batch to the configured spreadsheet")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "worksheet name (default: current date)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "export to an in-memory sheet instead of the real backend")

	return cmd
}

// exportCmd replays posts from a JSONL archive into the spreadsheet, so a
// batch collected earlier is not lost when its export never ran.
func exportCmd() *cobra.Command {
	var (
		input       string
		worksheet   string
		spreadsheet string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an archived batch to the spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Sheets.Backend = "memory"
			}
			if input == "" {
				input = cfg.Archive.OutputPath
			}

			posts, err := readArchivedPosts(input)
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				return fmt.Errorf("no posts found in %s", input)
			}
			logger.Info("archive loaded", "path", input, "posts", len(posts))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			service := tools.NewService(cfg, logger)
			defer service.Close()

			if err := service.ConnectSheets(ctx); err != nil {
				return fmt.Errorf("connect sheets: %w", err)
			}
			wr, err := service.ExportPosts(ctx, tools.ExportRequest{
				SpreadsheetID: spreadsheet,
				Worksheet:     worksheet,
				Posts:         posts,
			})
			if err != nil {
				return err
			}
			logger.Info("export done",
				"spreadsheet", wr.Spreadsheet,
				"worksheet", wr.Worksheet,
				"start_row", wr.StartRow,
				"new_rows", wr.NewRows,
				"total_rows", wr.TotalRows,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSONL archive to read (default: configured archive path)")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "worksheet name (default: current date)")
	cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "destination spreadsheet id (default: configured)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "export to an in-memory sheet instead of the real backend")

	return cmd
}

// readArchivedPosts decodes posts from a JSONL archive. The archive mixes
// post and profile records; lines without a post id are skipped.
func readArchivedPosts(path string) ([]*types.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	var posts []*types.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p types.Post
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("decode archive line: %w", err)
		}
		if p.ID == "" {
			continue
		}
		posts = append(posts, &p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return posts, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("feedsheet %s\n", config.Version)
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

// setup loads and validates config and builds the logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg.Logging), nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

func buildArchive(cfg *config.Config, logger *slog.Logger) (storage.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	var backends []storage.Archive
	if cfg.Archive.Type == "jsonl" || cfg.Archive.Type == "both" {
		jsonl, err := storage.NewJSONLArchive(cfg.Archive.OutputPath, logger)
		if err != nil {
			return nil, err
		}
		backends = append(backends, jsonl)
	}
	if cfg.Archive.Type == "mongodb" || cfg.Archive.Type == "both" {
		mongo, err := storage.NewMongoArchive(cfg.Archive.MongoURI, cfg.Archive.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		backends = append(backends, mongo)
	}

	if len(backends) == 1 {
		return backends[0], nil
	}
	return storage.NewMultiArchive(backends, logger), nil
}
