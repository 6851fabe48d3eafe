// Package pipeline streams an N-Triples dump through normalization and the
// entity munger.
//
// The input is cut into entity chunks: a chunk starts at the first statement
// whose subject is the entity data node of a new entity and runs until the
// next such statement. Statements ahead of the first entity (the dump header)
// pass through unmunged. Chunks are munged concurrently and written in input
// order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdf-munge/internal/metrics"
	"github.com/geoknoesis/rdf-munge/munge"
	"github.com/geoknoesis/rdf-munge/normalize"
	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

// PointPolicy says what happens to WKT literals that do not parse as points.
type PointPolicy int

const (
	// KeepInvalidPoints counts and logs the statement but writes it.
	KeepInvalidPoints PointPolicy = iota
	// SkipInvalidPoints drops the statement.
	SkipInvalidPoints
	// AbortOnInvalidPoint fails the run.
	AbortOnInvalidPoint
)

func (p PointPolicy) String() string {
	switch p {
	case SkipInvalidPoints:
		return "skip"
	case AbortOnInvalidPoint:
		return "abort"
	}
	return "keep"
}

// ParsePointPolicy parses "keep", "skip" or "abort".
func ParsePointPolicy(s string) (PointPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep", "":
		return KeepInvalidPoints, nil
	case "skip":
		return SkipInvalidPoints, nil
	case "abort":
		return AbortOnInvalidPoint, nil
	}
	return KeepInvalidPoints, fmt.Errorf("unknown invalid point policy %q", s)
}

// Options tunes a Pipeline. Zero values select defaults.
type Options struct {
	Workers         int
	BatchEntities   int
	MaxLineBytes    int
	CoordinateOrder wikibase.CoordinateOrder
	InvalidPoints   PointPolicy
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

// Stats summarizes one run.
type Stats struct {
	Read          int64
	Written       int64
	Entities      int64
	Normalized    int64
	InvalidPoints int64
}

// Pipeline couples a configured munger with streaming options. The munger is
// shared read-only by all workers.
type Pipeline struct {
	munger *munge.Munger
	uris   wikibase.URIs
	opts   Options
	logger *slog.Logger
}

// New returns a pipeline munging with m.
func New(m *munge.Munger, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchEntities < 1 {
		opts.BatchEntities = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		munger: m,
		uris:   m.URIs(),
		opts:   opts,
		logger: logger,
	}
}

type chunk struct {
	// entity is empty for statements that pass through unmunged.
	entity  string
	triples []rdf.Triple
}

type task struct {
	chunks []chunk
	done   chan struct{}
	err    error
}

// Run copies in to out, munging every entity. The first decode, munge or
// write error stops the run; the statistics gathered so far are returned with
// it.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	dec := rdf.NewTripleDecoder(in, rdf.DecodeOptions{MaxLineBytes: p.opts.MaxLineBytes})
	defer func() { _ = dec.Close() }()
	enc := rdf.NewTripleEncoder(out)

	var workers errgroup.Group
	workers.SetLimit(p.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	tasks := make(chan *task, p.opts.Workers)
	var read, written Stats
	started := time.Now()

	g.Go(func() error {
		defer close(tasks)
		return p.read(gctx, dec, tasks, &workers, &read)
	})
	g.Go(func() error {
		return p.write(gctx, enc, tasks, &written)
	})
	err := g.Wait()
	_ = workers.Wait()

	stats := read
	stats.Written = written.Written
	stats.Entities = written.Entities
	if err != nil {
		p.logger.Error("pipeline failed",
			"error", err,
			"read", stats.Read,
			"written", stats.Written)
		return stats, err
	}
	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	p.logger.Info("pipeline finished",
		"read", stats.Read,
		"written", stats.Written,
		"entities", stats.Entities,
		"normalized", stats.Normalized,
		"invalid_points", stats.InvalidPoints,
		"duration", time.Since(started))
	return stats, nil
}

func (p *Pipeline) read(ctx context.Context, dec rdf.TripleDecoder, tasks chan<- *task, workers *errgroup.Group, st *Stats) error {
	var cur chunk
	var pending []chunk

	dispatch := func() error {
		if len(pending) == 0 {
			return nil
		}
		t := &task{chunks: pending, done: make(chan struct{})}
		pending = nil
		workers.Go(func() error {
			p.munge(t)
			return nil
		})
		select {
		case tasks <- t:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		t, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode dump: %w", err)
		}
		st.Read++
		p.count(func(m *metrics.Metrics) { m.StatementsRead.Inc() })

		n := normalize.Triple(t)
		if n != t {
			st.Normalized++
			p.count(func(m *metrics.Metrics) { m.Normalized.Inc() })
		}
		keep, err := p.checkPoint(n, st)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}

		if id, ok := p.entityOf(n); ok && id != cur.entity {
			if len(cur.triples) > 0 {
				pending = append(pending, cur)
			}
			cur = chunk{entity: id}
			if len(pending) >= p.opts.BatchEntities {
				if err := dispatch(); err != nil {
					return err
				}
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cur.triples = append(cur.triples, n)
	}
	if len(cur.triples) > 0 {
		pending = append(pending, cur)
	}
	return dispatch()
}

func (p *Pipeline) write(ctx context.Context, enc rdf.TripleEncoder, tasks <-chan *task, st *Stats) error {
	for t := range tasks {
		<-t.done
		if t.err != nil {
			return t.err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, c := range t.chunks {
			if c.entity != "" {
				st.Entities++
			}
			for _, tr := range c.triples {
				if err := enc.Write(tr); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				st.Written++
			}
			p.count(func(m *metrics.Metrics) { m.StatementsWritten.Add(float64(len(c.triples))) })
		}
	}
	return nil
}

func (p *Pipeline) munge(t *task) {
	defer close(t.done)
	for i := range t.chunks {
		c := &t.chunks[i]
		if c.entity == "" {
			continue
		}
		start := time.Now()
		out, err := p.munger.Munge(c.entity, c.triples)
		p.count(func(m *metrics.Metrics) {
			m.MungeDuration.Observe(time.Since(start).Seconds())
			m.Entities.Inc()
		})
		if err != nil {
			p.count(func(m *metrics.Metrics) { m.MungeErrors.Inc() })
			t.err = fmt.Errorf("munge %s: %w", c.entity, err)
			return
		}
		c.triples = out
	}
}

// entityOf reports the entity id when the subject of t is an entity data node.
func (p *Pipeline) entityOf(t rdf.Triple) (string, bool) {
	s, ok := t.S.(rdf.IRI)
	if !ok {
		return "", false
	}
	id, found := strings.CutPrefix(s.Value, p.uris.EntityData())
	if !found || !wikibase.IsEntityID(id) {
		return "", false
	}
	return id, true
}

// checkPoint applies the invalid point policy to WKT literal objects.
func (p *Pipeline) checkPoint(t rdf.Triple, st *Stats) (bool, error) {
	lit, ok := t.O.(rdf.Literal)
	if !ok {
		return true, nil
	}
	if dt := lit.Datatype.Value; dt != wikibase.WKTLiteral && dt != wikibase.WKTCRSLiteral {
		return true, nil
	}
	_, err := wikibase.ParsePoint(lit.Lexical, p.opts.CoordinateOrder)
	if err == nil {
		return true, nil
	}
	st.InvalidPoints++
	policy := p.opts.InvalidPoints
	p.count(func(m *metrics.Metrics) { m.InvalidPoints.WithLabelValues(policy.String()).Inc() })
	p.logger.Warn("invalid point literal",
		"subject", t.S.String(),
		"literal", lit.Lexical,
		"policy", policy.String())
	switch policy {
	case SkipInvalidPoints:
		return false, nil
	case AbortOnInvalidPoint:
		return false, fmt.Errorf("statement %s: %w", t, err)
	}
	return true, nil
}

func (p *Pipeline) count(fn func(*metrics.Metrics)) {
	if p.opts.Metrics != nil {
		fn(p.opts.Metrics)
	}
}
