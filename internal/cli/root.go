// Package cli implements the rdf-munge command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/geoknoesis/rdf-munge/internal/config"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *slog.Logger

	// flagKeys maps flag names of the running command to config keys.
	flagKeys map[*cobra.Command]map[string]string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{flagKeys: map[*cobra.Command]map[string]string{}}

	root := &cobra.Command{
		Use:   "rdf-munge",
		Short: "Prepare Wikibase RDF dumps for loading into a triple store",
		Long: `rdf-munge rewrites Wikibase RDF dumps into the reduced form a query
service indexes: legacy ontology IRIs are normalized, expanded statement,
reference and value nodes are kept while their type markers are dropped,
entity data headers are folded onto the entity, and label, description and
alias languages can be limited.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (RDF_MUNGE_*)
3. Config file (~/.rdf-munge/config.yaml)
4. Defaults`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.rdf-munge/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")
	a.bind(root, map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
	})

	root.AddCommand(
		a.newMungeCommand(),
		a.newPointCommand(),
		a.newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// bind records which config key a flag overrides. The binding itself happens
// once the viper instance exists.
func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	a.flagKeys[cmd] = keys
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	for c := cmd; c != nil; c = c.Parent() {
		for name, key := range a.flagKeys[c] {
			flag := lookupFlag(cmd, name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.v, a.cfg, a.logger = v, cfg, logger
	if file := v.ConfigFileUsed(); file != "" {
		logger.Debug("using config file", "path", file)
	}
	return nil
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip configuration loading so version works with a broken config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rdf-munge %s\n", Version)
		},
	}
}
