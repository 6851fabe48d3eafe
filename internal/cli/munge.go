package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-munge/internal/metrics"
	"github.com/geoknoesis/rdf-munge/internal/pipeline"
)

func (a *app) newMungeCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "munge",
		Short: "Munge an N-Triples dump",
		Long: `Munge reads a Wikibase N-Triples dump, normalizes it and munges every
entity. Input and output are decompressed and compressed by extension
(.gz, .bz2, .xz); "-" stands for stdin or stdout.

Example:
  rdf-munge munge --from latest-all.nt.bz2 --to munged.nt.gz
  rdf-munge munge --from dump.nt --to - --labels en,de --single-label en
  rdf-munge munge --from dump.nt.xz --to out.nt --skip-site-links --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMunge(cmd, from, to)
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "input dump (- for stdin)")
	f.StringVar(&to, "to", pipeline.Stdio, "output file (- for stdout)")
	f.String("root", "", "wikibase host root, e.g. https://test.wikidata.org")
	f.Bool("skip-site-links", false, "drop site links")
	f.StringSlice("labels", nil, "keep labels, descriptions and aliases only in these languages")
	f.StringSlice("single-label", nil, "keep one label, description and alias, preferring these languages in order")
	f.Int("workers", 0, "entities munged concurrently (default: number of CPUs)")
	f.Int("batch-entities", 0, "entities handed to a worker at once")
	f.Int("max-line-bytes", 0, "longest accepted input line")
	f.String("order", "", "coordinate order of WKT points (lat-long, long-lat)")
	f.String("invalid-points", "", "what to do with unparsable points (keep, skip, abort)")
	f.String("metrics-addr", "", "serve prometheus metrics on this address while munging")
	_ = cmd.MarkFlagRequired("from")

	a.bind(cmd, map[string]string{
		"root":            "wikibase.root",
		"skip-site-links": "munge.remove_site_links",
		"labels":          "munge.limit_label_languages",
		"single-label":    "munge.single_label_languages",
		"workers":         "pipeline.workers",
		"batch-entities":  "pipeline.batch_entities",
		"max-line-bytes":  "pipeline.max_line_bytes",
		"order":           "pipeline.coordinate_order",
		"invalid-points":  "pipeline.invalid_points",
		"metrics-addr":    "metrics.addr",
	})
	return cmd
}

func (a *app) runMunge(cmd *cobra.Command, from, to string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg

	policy, err := pipeline.ParsePointPolicy(cfg.Pipeline.InvalidPoints)
	if err != nil {
		return err
	}

	in, err := pipeline.Open(from)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := pipeline.Create(to)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		serveCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := m.Serve(serveCtx, cfg.Metrics.Addr, a.logger); err != nil {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	p := pipeline.New(cfg.Munger(a.logger), pipeline.Options{
		Workers:         cfg.Pipeline.Workers,
		BatchEntities:   cfg.Pipeline.BatchEntities,
		MaxLineBytes:    cfg.Pipeline.MaxLineBytes,
		CoordinateOrder: cfg.CoordinateOrder(),
		InvalidPoints:   policy,
		Logger:          a.logger,
		Metrics:         m,
	})

	a.logger.Info("munging dump",
		"from", from,
		"to", to,
		"workers", cfg.Pipeline.Workers,
		"skip_site_links", cfg.Munge.RemoveSiteLinks)
	start := time.Now()
	stats, err := p.Run(ctx, in, out)
	if err != nil {
		return fmt.Errorf("munge %s: %w", from, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Read %d statements, wrote %d for %d entities in %v (%d normalized, %d invalid points)\n",
		stats.Read, stats.Written, stats.Entities, time.Since(start).Round(time.Millisecond),
		stats.Normalized, stats.InvalidPoints)
	return nil
}
