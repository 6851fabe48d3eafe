// Package config loads rdf-munge settings from defaults, a YAML file,
// RDF_MUNGE_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/geoknoesis/rdf-munge/munge"
	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "RDF_MUNGE"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Invalid point policies.
const (
	PointsKeep  = "keep"
	PointsSkip  = "skip"
	PointsAbort = "abort"
)

// Config is the complete effective configuration.
type Config struct {
	Wikibase WikibaseConfig `yaml:"wikibase" mapstructure:"wikibase"`
	Munge    MungeConfig    `yaml:"munge" mapstructure:"munge"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// WikibaseConfig selects the namespace system of the dump.
type WikibaseConfig struct {
	Root string `yaml:"root" mapstructure:"root"`
}

// MungeConfig holds the munger policies.
type MungeConfig struct {
	RemoveSiteLinks      bool     `yaml:"remove_site_links" mapstructure:"remove_site_links"`
	LimitLabelLanguages  []string `yaml:"limit_label_languages" mapstructure:"limit_label_languages"`
	SingleLabelLanguages []string `yaml:"single_label_languages" mapstructure:"single_label_languages"`
}

// PipelineConfig controls dump streaming.
type PipelineConfig struct {
	Workers         int    `yaml:"workers" mapstructure:"workers"`
	BatchEntities   int    `yaml:"batch_entities" mapstructure:"batch_entities"`
	MaxLineBytes    int    `yaml:"max_line_bytes" mapstructure:"max_line_bytes"`
	CoordinateOrder string `yaml:"coordinate_order" mapstructure:"coordinate_order"`
	InvalidPoints   string `yaml:"invalid_points" mapstructure:"invalid_points"`
}

// MetricsConfig enables the prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Wikibase: WikibaseConfig{Root: wikibase.DefaultRoot},
		Pipeline: PipelineConfig{
			Workers:         runtime.NumCPU(),
			BatchEntities:   100,
			MaxLineBytes:    rdf.DefaultMaxLineBytes,
			CoordinateOrder: wikibase.DefaultOrder.String(),
			InvalidPoints:   PointsKeep,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("wikibase.root", d.Wikibase.Root)
	v.SetDefault("munge.remove_site_links", d.Munge.RemoveSiteLinks)
	v.SetDefault("munge.limit_label_languages", []string{})
	v.SetDefault("munge.single_label_languages", []string{})
	v.SetDefault("pipeline.workers", d.Pipeline.Workers)
	v.SetDefault("pipeline.batch_entities", d.Pipeline.BatchEntities)
	v.SetDefault("pipeline.max_line_bytes", d.Pipeline.MaxLineBytes)
	v.SetDefault("pipeline.coordinate_order", d.Pipeline.CoordinateOrder)
	v.SetDefault("pipeline.invalid_points", d.Pipeline.InvalidPoints)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// New returns a viper instance with defaults and environment binding. When
// file is empty $HOME/.rdf-munge/config.yaml is read if it exists; an
// explicitly named file must exist.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return v, nil
	}
	v.AddConfigPath(filepath.Join(home, ".rdf-munge"))
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Wikibase.Root, "http://") && !strings.HasPrefix(c.Wikibase.Root, "https://") {
		return fmt.Errorf("%w: wikibase.root %q is not an http(s) URL", ErrInvalid, c.Wikibase.Root)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be positive, got %d", ErrInvalid, c.Pipeline.Workers)
	}
	if c.Pipeline.BatchEntities < 1 {
		return fmt.Errorf("%w: pipeline.batch_entities must be positive, got %d", ErrInvalid, c.Pipeline.BatchEntities)
	}
	if c.Pipeline.MaxLineBytes < 1024 {
		return fmt.Errorf("%w: pipeline.max_line_bytes must be at least 1024, got %d", ErrInvalid, c.Pipeline.MaxLineBytes)
	}
	if _, err := wikibase.ParseCoordinateOrder(c.Pipeline.CoordinateOrder); err != nil {
		return fmt.Errorf("%w: pipeline.coordinate_order: %v", ErrInvalid, err)
	}
	switch c.Pipeline.InvalidPoints {
	case PointsKeep, PointsSkip, PointsAbort:
	default:
		return fmt.Errorf("%w: pipeline.invalid_points must be keep, skip or abort, got %q", ErrInvalid, c.Pipeline.InvalidPoints)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// URIs returns the namespace system for the configured root.
func (c Config) URIs() wikibase.URIs {
	return wikibase.NewURIs(strings.TrimSuffix(c.Wikibase.Root, "/"))
}

// CoordinateOrder returns the configured order; Validate guarantees it parses.
func (c Config) CoordinateOrder() wikibase.CoordinateOrder {
	order, err := wikibase.ParseCoordinateOrder(c.Pipeline.CoordinateOrder)
	if err != nil {
		return wikibase.DefaultOrder
	}
	return order
}

// Munger builds the munger described by the munge section.
func (c Config) Munger(logger *slog.Logger) *munge.Munger {
	m := munge.New(c.URIs(), munge.WithLogger(logger))
	if c.Munge.RemoveSiteLinks {
		m = m.WithSiteLinksRemoved()
	}
	if langs := splitLanguages(c.Munge.LimitLabelLanguages); len(langs) > 0 {
		m = m.WithLimitedLabelLanguages(langs...)
	}
	if langs := splitLanguages(c.Munge.SingleLabelLanguages); len(langs) > 0 {
		m = m.WithSingleLabelMode(langs...)
	}
	return m
}

// splitLanguages accepts both list entries and comma separated values.
func splitLanguages(in []string) []string {
	var out []string
	for _, s := range in {
		for _, l := range strings.Split(s, ",") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

// Logger builds a logger writing to w.
func (c LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, s)
	}
	return level, nil
}
