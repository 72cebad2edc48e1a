// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/supplier-extract/internal/metrics"
	"github.com/pdiddy/supplier-extract/internal/report"
	"github.com/pdiddy/supplier-extract/pkg/profiler"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [content-file]",
	Short: "Extract a supplier record from scraped page content",
	Long: `Extract reads scraped page content (url, title, description, content,
rawHtml) from a JSON or YAML file, or from stdin when the file is "-",
and prints the merged supplier record with its metadata.

The command fails only when no provider produced a record and the
rule-based extractor found nothing either.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("format", "table", "output format: table, json or yaml")
	extractCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this file after the run")
	extractCmd.Flags().String("url", "", "override the page URL of the input")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	sc, err := readContent(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if u, _ := cmd.Flags().GetString("url"); u != "" {
		sc.URL = u
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	p, err := profiler.New(cfg, profiler.WithLogger(logger), profiler.WithMetrics(m))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, runErr := p.Extract(ctx, sc)

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			logger.Warn("writing metrics file", zap.String("path", path), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	return report.Write(cmd.OutOrStdout(), f, out)
}

// readContent decodes a ScrapedContent from path. YAML is assumed for .yaml
// and .yml files, JSON otherwise.
func readContent(path string, stdin io.Reader) (types.ScrapedContent, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.ScrapedContent{}, fmt.Errorf("reading content: %w", err)
	}

	var sc types.ScrapedContent
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sc)
	default:
		err = json.Unmarshal(data, &sc)
	}
	if err != nil {
		return types.ScrapedContent{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if sc.Title == "" && sc.Content == "" && sc.RawHTML == "" {
		return types.ScrapedContent{}, fmt.Errorf("%s: no title, content or rawHtml", path)
	}
	return sc, nil
}
