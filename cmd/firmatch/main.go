// Copyright 2025 Sirenic Labs
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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/sirenic/firmatch/activity"
	"github.com/sirenic/firmatch/ai"
	"github.com/sirenic/firmatch/ai/openai"
	"github.com/sirenic/firmatch/catalog"
	"github.com/sirenic/firmatch/companyapi"
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/engine"
	"github.com/sirenic/firmatch/location"
	"github.com/sirenic/firmatch/refine"
	"github.com/sirenic/firmatch/sector"
	"github.com/sirenic/firmatch/size"
	badgerstore "github.com/sirenic/firmatch/storage/badger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "firmatch",
		Usage: "Criteria normalization engine for French company search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build or refresh the activity embedding index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Path to the reference catalog directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "API token for the embedding service",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of labels to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "resolve",
				Usage:     "Normalize a criteria JSON document against the catalogs",
				ArgsUsage: "[file]",
				Action:    resolveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Path to the reference catalog directory",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "sector-threshold",
						Usage: "Fuzzy-match threshold for sector labels",
						Value: sector.DefaultThreshold,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one full search round over a query",
				ArgsUsage: "query",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Path to the reference catalog directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "api-url",
						Usage:    "Company count API base URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "Company count API key",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL for both embedding and extraction",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "extractor-model",
						Usage:    "Extraction model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "API token for the AI services",
					},
					&cli.IntFlag{
						Name:  "round",
						Usage: "Refinement round number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "threshold",
						Usage: "Result count above which refinement kicks in",
						Value: refine.DefaultThreshold,
					},
					&cli.IntFlag{
						Name:  "max-rounds",
						Usage: "Refinement rounds before forced delivery",
						Value: refine.DefaultMaxRounds,
					},
					&cli.DurationFlag{
						Name:  "api-timeout",
						Usage: "Timeout for count API calls",
						Value: 60 * time.Second,
					},
				},
			},
		},
	}
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badgerstore.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badgerstore.NewActivityRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	cat, err := catalog.Load(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(c.String("token")),
		// Extraction is not used for indexing
		ai.WithExtractorHost(c.String("embedding-host")),
		ai.WithExtractorModel("dummy"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	indexer, err := activity.NewIndexer(repo, embedder, cat, aiConfig.EmbeddingModel,
		activity.WithBatchSize(c.Int("batch-size")),
		activity.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")))
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Catalogs: %s\n", c.String("data"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := indexer.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	count, err := repo.CountEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("failed to count embeddings: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Index covers %d activity labels\n", count)

	return nil
}

// resolveOutput is the resolve command's JSON result.
type resolveOutput struct {
	Criteria    core.CriteriaBundle `json:"criteria"`
	Corrections []correctionOutput  `json:"corrections"`
}

type correctionOutput struct {
	OriginalValue    string  `json:"original_value"`
	MatchedValue     string  `json:"matched_value"`
	OriginalCategory string  `json:"original_category"`
	MatchedCategory  string  `json:"matched_category"`
	Score            float64 `json:"score"`
}

func resolveCommand(c *cli.Context) error {
	cat, err := catalog.Load(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	locations, err := location.NewMatcher(cat)
	if err != nil {
		return fmt.Errorf("failed to create location matcher: %w", err)
	}
	sectors, err := sector.NewMatcher(cat)
	if err != nil {
		return fmt.Errorf("failed to create sector matcher: %w", err)
	}

	input := os.Stdin
	if path := c.Args().First(); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open criteria file: %w", err)
		}
		defer file.Close()
		input = file
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read criteria: %w", err)
	}

	var bundle core.CriteriaBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("failed to parse criteria JSON: %w", err)
	}
	bundle.Normalize()

	resolved, corrections := locations.Resolve(bundle)
	if resolved.Activity.Present && resolved.Activity.SectorLabel != "" {
		resolved.Activity.SectorLabel = sectors.MatchOrKeep(
			resolved.Activity.SectorLabel, c.Float64("sector-threshold"))
	}
	size.Apply(&resolved)

	output := resolveOutput{Criteria: resolved}
	for i := range corrections {
		correction := &corrections[i]
		output.Corrections = append(output.Corrections, correctionOutput{
			OriginalValue:    correction.OriginalValue,
			MatchedValue:     correction.MatchedValue,
			OriginalCategory: correction.OriginalCategory.String(),
			MatchedCategory:  correction.MatchedCategory.String(),
			Score:            correction.Score,
		})
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(encoded))

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	backend, err := badgerstore.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badgerstore.NewActivityRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	cat, err := catalog.Load(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorModel(c.String("extractor-model")),
		ai.WithToken(c.String("token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	indexer, err := activity.NewIndexer(repo, provider.Embedder(), cat, aiConfig.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	if err := indexer.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to prepare activity index: %w", err)
	}

	activities, err := activity.NewMatcher(repo, provider.Embedder())
	if err != nil {
		return fmt.Errorf("failed to create activity matcher: %w", err)
	}

	locations, err := location.NewMatcher(cat)
	if err != nil {
		return fmt.Errorf("failed to create location matcher: %w", err)
	}
	sectors, err := sector.NewMatcher(cat)
	if err != nil {
		return fmt.Errorf("failed to create sector matcher: %w", err)
	}

	counter, err := companyapi.NewClient(c.String("api-url"), c.String("api-key"),
		companyapi.WithTimeout(c.Duration("api-timeout")))
	if err != nil {
		return fmt.Errorf("failed to create count API client: %w", err)
	}

	controller := refine.NewController(
		refine.WithThreshold(c.Int("threshold")),
		refine.WithMaxRounds(c.Int("max-rounds")))

	eng, err := engine.NewEngine(provider.CriteriaExtractor(), locations, sectors, activities, counter,
		engine.WithController(controller))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	messages := []core.Message{{Role: core.RoleUser, Content: query}}
	response, err := eng.Process(ctx, messages, c.Int("round"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResponse(os.Stdout, response)
	return nil
}

func printResponse(w io.Writer, response *engine.Response) {
	fmt.Fprintf(w, "Action: %s\n", response.Action)

	switch response.Action {
	case refine.ActionReject:
		fmt.Fprintf(w, "Message: %s\n", response.Message)
		return
	case refine.ActionRefine:
		fmt.Fprintf(w, "Count: %d\n", response.Count)
		fmt.Fprintf(w, "Question: %s\n", response.Question)
	default:
		fmt.Fprintf(w, "Count: %d\n", response.Count)
		fmt.Fprintf(w, "Message: %s\n", response.Message)
	}

	if response.Summary != "" {
		fmt.Fprintf(w, "Criteria: %s\n", response.Summary)
	}
	if len(response.Codes) > 0 {
		fmt.Fprintf(w, "Activity codes: %s\n", strings.Join(response.Codes, ", "))
	}
	for i := range response.Corrections {
		correction := &response.Corrections[i]
		if !correction.Matched() {
			fmt.Fprintf(w, "Unmatched location: %q\n", correction.OriginalValue)
			continue
		}
		if correction.WasCorrected() {
			fmt.Fprintf(w, "Location corrected: %q -> %q (%s)\n",
				correction.OriginalValue, correction.MatchedValue,
				correction.MatchedCategory.String())
		}
	}
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
