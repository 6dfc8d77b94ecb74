// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/creatorsearch"
	"github.com/poiesic/creatorsearch/config"
	"github.com/poiesic/creatorsearch/search"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI. engineOpts are passed to every creatorsearch.Open.
func newApp(engineOpts ...creatorsearch.Option) *cli.App {
	cmds := &commands{engineOpts: engineOpts}

	return &cli.App{
		Name:  "creatorsearch",
		Usage: "Keyword and attribute search over creator profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load settings from these .env files (default .env)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database (BadgerDB directory or SQLite file, :memory: for a scratch store)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Store backend (badger, sqlite)",
			},
			&cli.StringFlag{
				Name:  "lexicon",
				Usage: "YAML lexicon replacing the built-in categories and stopwords",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search creators by keywords and filters",
				ArgsUsage: "[query...]",
				Action:    cmds.search,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Results per page (default from CREATORSEARCH_DEFAULT_LIMIT)"},
					&cli.IntFlag{Name: "offset", Usage: "Results to skip"},
					&cli.StringFlag{Name: "platform", Usage: "instagram, youtube or tiktok"},
					&cli.StringFlag{Name: "category", Usage: "Category substring"},
					&cli.StringFlag{Name: "min-followers", Usage: "Minimum total followers"},
					&cli.StringFlag{Name: "max-followers", Usage: "Maximum total followers"},
					&cli.StringFlag{Name: "engagement-min", Usage: "Minimum engagement rate (percent)"},
					&cli.StringFlag{Name: "min-video-count", Usage: "Minimum video count"},
					&cli.StringFlag{Name: "min-total-views", Usage: "Minimum total views"},
					&cli.StringFlag{Name: "has-youtube-url", Usage: "true or false"},
					&cli.StringFlag{Name: "verified", Usage: "true or false"},
					&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Raw filter as key=value (repeatable)"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
				},
			},
			{
				Name:      "similar",
				Usage:     "Rank creators by embedding similarity to a description",
				ArgsUsage: "<description...>",
				Action:    cmds.similar,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results", Value: 10},
					&cli.Float64Flag{Name: "threshold", Usage: "Minimum similarity (0 uses the configured value)"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
				},
			},
			{
				Name:      "load",
				Usage:     "Load a JSON Lines catalog of creators",
				ArgsUsage: "<catalog.jsonl>",
				Action:    cmds.load,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-embed", Usage: "Store profiles without generating embeddings"},
					&cli.IntFlag{Name: "pool-size", Usage: "Concurrent embedding workers (0 uses the configured value)"},
					&cli.IntFlag{Name: "batch-size", Usage: "Profiles per embedding request (0 uses the configured value)"},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every stored creator",
				Action: cmds.reembed,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "batch-size", Usage: "Number of creators to process in each batch", Value: 100},
					&cli.IntFlag{Name: "report-interval", Usage: "Report progress every N creators", Value: 100},
					&cli.IntFlag{Name: "max-retries", Usage: "Maximum retry attempts for failed operations", Value: 3},
					&cli.DurationFlag{Name: "retry-delay", Usage: "Base delay for exponential backoff", Value: 1 * time.Second},
					&cli.BoolFlag{Name: "force", Usage: "Re-embed profiles whose text has not changed"},
				},
			},
		},
	}
}

// setup loads the environment config, applies global flags over it and
// installs the logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"log-level":       &cfg.LogLevel,
		"db":              &cfg.DBPath,
		"backend":         &cfg.Backend,
		"lexicon":         &cfg.LexiconFile,
		"embedding-host":  &cfg.EmbeddingHost,
		"embedding-model": &cfg.EmbeddingModel,
	}
	for name, field := range overrides {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogger(c, cfg.LogLevel); err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(c *cli.Context, levelStr string) error {
	level, err := config.ParseLevel(levelStr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// rawFilterFlags maps search flags to filter keys.
var rawFilterFlags = map[string]string{
	"platform":        search.FilterPlatform,
	"category":        search.FilterCategory,
	"min-followers":   search.FilterMinFollowers,
	"max-followers":   search.FilterMaxFollowers,
	"engagement-min":  search.FilterEngagementMin,
	"min-video-count": search.FilterMinVideoCount,
	"min-total-views": search.FilterMinTotalViews,
	"has-youtube-url": search.FilterHasYouTubeURL,
	"verified":        search.FilterVerified,
}
