// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-features CLI.
// It loads citation edges and paper metadata, derives comparison features
// for each edge, and writes or stores the resulting model-input table.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-features/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is configured from --log-level and --log-json before any command runs.
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the citation-features CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-features",
	Short: "Derive citation-prediction features from paper metadata",
	Long: `citation-features joins (paper, referenced_paper) edges against a paper
metadata table and derives comparison features for each edge: year and
citation-count gaps, and shared concept/author overlap ratios.

Metadata can come from a CSV file or from a directory of per-paper YAML
records, which "metadata fetch" builds from the OpenAlex works API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"), viper.GetBool("log.json"))
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug().Strs("keys", s.Keys()).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-features.yaml or ~/.config/citation-features/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON instead of console text")

	bindFlag(rootCmd, "log.level", "log-level")
	bindFlag(rootCmd, "log.json", "log-json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-features")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-features"))
		}
	}

	viper.SetEnvPrefix("CITATION_FEATURES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger: console output by default, JSON
// lines when asJSON is set.
func newLogger(level string, asJSON bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if asJSON {
		return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(), nil
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger(), nil
}

// bindFlag binds viper key to the flag called name on cmd, so the value may
// also come from the config file or a CITATION_FEATURES_* variable.
func bindFlag(cmd *cobra.Command, key, name string) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}
	if f == nil {
		panic(fmt.Sprintf("bindFlag: %s has no flag --%s", cmd.Name(), name))
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bindFlag: %s: %v", key, err))
	}
}

// setFromFlags copies the explicitly set flags of cmd onto viper keys that
// are bound to another command's flags.
func setFromFlags(cmd *cobra.Command, keys map[string]string) {
	for name, key := range keys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
