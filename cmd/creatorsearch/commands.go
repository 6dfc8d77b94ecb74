package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/creatorsearch"
	"github.com/poiesic/creatorsearch/ingestion"
	"github.com/poiesic/creatorsearch/reembed"
	"github.com/poiesic/creatorsearch/search"
	"github.com/urfave/cli/v2"
)

type commands struct {
	engineOpts []creatorsearch.Option
}

func (cmds *commands) open(c *cli.Context) (*creatorsearch.Engine, error) {
	cfg, err := configFrom(c)
	if err != nil {
		return nil, err
	}
	engine, err := creatorsearch.Open(cfg, cmds.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func (cmds *commands) search(c *cli.Context) error {
	raw, err := rawFilters(c)
	if err != nil {
		return err
	}
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	limit := cfg.DefaultLimit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	engine, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	resp := searcher.Search(c.Context, search.Request{
		Query:      strings.Join(c.Args().Slice(), " "),
		RawFilters: raw,
		Limit:      limit,
		Offset:     c.Int("offset"),
	})
	if err := writeJSON(c.App.Writer, resp, c.Bool("pretty")); err != nil {
		return err
	}
	if !resp.Success {
		return cli.Exit(fmt.Sprintf("search failed: %s", resp.Insights.Error), 1)
	}
	return nil
}

// rawFilters collects the filter flags and --filter key=value pairs.
// Named flags win over --filter entries for the same key.
func rawFilters(c *cli.Context) (map[string]string, error) {
	raw := make(map[string]string)
	for _, kv := range c.StringSlice("filter") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", kv)
		}
		raw[strings.TrimSpace(key)] = value
	}
	for flag, key := range rawFilterFlags {
		if c.IsSet(flag) {
			raw[key] = c.String(flag)
		}
	}
	return raw, nil
}

func (cmds *commands) similar(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a description is required")
	}

	engine, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var opts []search.Option
	if c.IsSet("threshold") {
		opts = append(opts, search.WithSimilarityThreshold(float32(c.Float64("threshold"))))
	}
	searcher, err := engine.NewSearcher(opts...)
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(c.Context, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}
	return writeJSON(c.App.Writer, results, c.Bool("pretty"))
}

func (cmds *commands) load(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("catalog path is required")
	}
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	candidates, malformed, err := ingestion.ReadCandidates(fh)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	engine, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var opts []ingestion.Option
	if c.Bool("no-embed") {
		opts = append(opts, ingestion.WithoutEmbeddings())
	}
	if n := c.Int("pool-size"); n > 0 {
		opts = append(opts, ingestion.WithPoolSize(n))
	}
	if n := c.Int("batch-size"); n > 0 {
		opts = append(opts, ingestion.WithBatchSize(n))
	}
	pipeline, err := engine.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(c.Context, candidates)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	pipeline.Wait()

	report.Rejected = append(malformed, report.Rejected...)
	out := c.App.ErrWriter
	fmt.Fprintf(out, "Catalog: %s\n", path)
	fmt.Fprintf(out, "Stored: %d\n", report.Stored)
	fmt.Fprintf(out, "Rejected: %d\n", len(report.Rejected))
	for _, r := range report.Rejected {
		fmt.Fprintf(out, "  %s\n", describeRejection(r))
	}
	if !c.Bool("no-embed") {
		fmt.Fprintf(out, "Embedded: %d (failed %d)\n", pipeline.Embedded(), pipeline.Failed())
	}
	return nil
}

func describeRejection(r ingestion.Rejection) string {
	var where string
	switch {
	case r.Line > 0:
		where = fmt.Sprintf("line %d", r.Line)
	default:
		where = fmt.Sprintf("record %d", r.Index)
	}
	if r.Username != "" {
		where += " (" + r.Username + ")"
	}
	return where + ": " + r.Reason
}

func (cmds *commands) reembed(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	engine, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	reembedder, err := engine.NewReembedder(reembedConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	out := c.App.ErrWriter
	fmt.Fprintf(out, "Database: %s (%s)\n", cfg.DBPath, cfg.Backend)
	fmt.Fprintf(out, "Embedding host: %s\n", cfg.EmbeddingHost)
	fmt.Fprintf(out, "Embedding model: %s\n", cfg.EmbeddingModel)
	fmt.Fprintln(out)

	if _, err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
