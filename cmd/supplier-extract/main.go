// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the supplier-extract CLI, a developer
// harness around pkg/profiler. It reads scraped page content from a file,
// runs the configured providers and prints the merged supplier record.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/supplier-extract/internal/logging"
	"github.com/pdiddy/supplier-extract/internal/secrets"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// logger is built from the persistent logging flags before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the supplier-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "supplier-extract",
	Short: "Extract structured supplier profiles from scraped web content",
	Long: `supplier-extract turns the text of a business's web page into one
validated supplier record. Every configured text-understanding provider is
asked for a record; the records that come back are filtered for noise,
merged and scored. When no provider succeeds a rule-based extractor runs
over the same content.

Providers are configured in supplier-extract.yaml. API keys are read from
the config, from .secrets/<vendor>-api-key files, or from <VENDOR>_API_KEY
environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		l, err := logging.New(level, format)
		if err != nil {
			return err
		}
		logger = l

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./supplier-extract.yaml or ~/.config/supplier-extract/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of <vendor>-api-key files")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("supplier-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "supplier-extract"))
		}
	}

	viper.SetEnvPrefix("SUPPLIER_EXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the pipeline configuration from viper and fills
// missing API keys from the secrets directory and the environment.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Providers = secrets.Apply(cfg.Providers, loadedSecrets, os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
