// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/perigee/recall"
	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/ingest"
	"github.com/perigee/recall/reindex"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "recall",
		Usage: "Archive chat exports and search them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./recall.db",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.IntFlag{
				Name:  "dimensions",
				Usage: "Embedding vector width",
				Value: 768,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a chat export archive",
				ArgsUsage: "<archive.zip>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "skip-embeddings",
						Usage: "Store messages without embeddings (keyword search only)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search imported messages",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:    "alpha",
						Aliases: []string{"a"},
						Usage:   "Semantic weight: 0 is pure keyword, 1 is pure semantic",
						Value:   0.5,
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Show the status of an upload job",
				ArgsUsage: "<upload-id>",
				Action:    statusCommand,
			},
			{
				Name:      "failures",
				Usage:     "List import failures recorded for an upload job",
				ArgsUsage: "<upload-id>",
				Action:    failuresCommand,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a running upload job",
				ArgsUsage: "<upload-id>",
				Action:    cancelCommand,
			},
			{
				Name:      "restart",
				Usage:     "Restart an upload job that ended in ERROR or CANCELLED",
				ArgsUsage: "<upload-id>",
				Action:    restartCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored message",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of messages to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N messages",
						Value: 100,
					},
				},
			},
		},
	}
}

func openDatabase(c *cli.Context) (*recall.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithDimensions(c.Int("dimensions")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	db, err := recall.NewDatabase(c.String("db"), recall.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// consoleReporter prints progress snapshots to stderr.
type consoleReporter struct{}

func (consoleReporter) Progress(_ string, snap ingest.Snapshot) {
	fmt.Fprintf(os.Stderr, "\r%-10s %3d%% overall, %3d%% %s: %s",
		snap.Status, snap.OverallProgress, snap.StageProgress, snap.Stage, snap.Message)
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one archive path")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline(
		ingest.WithSkipEmbeddings(c.Bool("skip-embeddings")),
		ingest.WithReporter(consoleReporter{}),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	job, err := pipeline.CreateUpload(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to register upload: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Upload %s registered\n", job.ID)

	if err := pipeline.Run(ctx, job.ID); err != nil {
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	final, err := db.Uploads().GetUpload(ctx, job.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", final.Message)

	failures, err := pipeline.Failures(ctx, job.ID)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		fmt.Printf("%d failures recorded; inspect with: recall failures %s\n", len(failures), job.ID)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, c.Args().First(), c.Int("limit"), c.Float64("alpha"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, result := range results {
		marker := "semantic"
		if result.KeywordMatch {
			marker = "keyword"
		}
		fmt.Printf("%.3f  [%s]  %s  <%s>  %s\n",
			result.Score, marker,
			result.Timestamp.Format("2006-01-02 15:04"),
			result.User, result.Text)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one upload id")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := db.Uploads().GetUpload(ctx, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("Upload:   %s\n", job.ID)
	fmt.Printf("Archive:  %s\n", job.Filename)
	fmt.Printf("Status:   %s\n", job.Status)
	fmt.Printf("Stage:    %s (%d%%)\n", job.CurrentStage, job.StageProgress)
	fmt.Printf("Overall:  %d%%\n", job.OverallProgress)
	fmt.Printf("Message:  %s\n", job.Message)
	if job.Error != "" {
		fmt.Printf("Error:    %s\n", job.Error)
	}
	return nil
}

func failuresCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one upload id")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	failures, err := db.Failures().GetFailuresByUpload(ctx, c.Args().First())
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Println("no failures recorded")
		return nil
	}

	for _, failure := range failures {
		if failure.LineNumber > 0 {
			fmt.Printf("%s:%d: %s\n", failure.FilePath, failure.LineNumber, failure.ErrorMessage)
			if failure.RawLine != "" {
				fmt.Printf("    %s\n", failure.RawLine)
			}
		} else {
			fmt.Printf("%s: %s\n", failure.FilePath, failure.ErrorMessage)
		}
	}
	return nil
}

func cancelCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one upload id")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	if err := pipeline.Cancel(ctx, c.Args().First()); err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}
	fmt.Println("cancelled")
	return nil
}

func restartCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one upload id")
	}
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	uploadID := c.Args().First()
	job, err := db.Uploads().GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if !job.Status.Restartable() {
		return fmt.Errorf("%w: cannot restart from %s", core.ErrInvalidTransition, job.Status)
	}

	pipeline, err := db.NewPipeline(ingest.WithReporter(consoleReporter{}))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	// Drive the resumed job to completion in the foreground.
	if err := pipeline.Run(ctx, uploadID); err != nil {
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("restart failed: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	final, err := db.Uploads().GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", final.Message)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		Retry:          ai.DefaultRetryPolicy(),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := db.NewReindexer(config, os.Stderr).Run(ctx); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
