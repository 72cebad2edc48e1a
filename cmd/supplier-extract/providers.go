// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pdiddy/supplier-extract/internal/provider"
	"github.com/pdiddy/supplier-extract/pkg/profiler"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the enabled providers and whether credentials were found",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := profiler.New(cfg, profiler.WithLogger(logger))
		if err != nil {
			return err
		}

		statuses := p.Providers()
		if len(statuses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No providers enabled.")
			return nil
		}

		width := len("Provider")
		for _, s := range statuses {
			if n := runewidth.StringWidth(s.Name); n > width {
				width = n
			}
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s  %-18s  %-28s  %s\n", runewidth.FillRight("Provider", width), "Vendor", "Model", "Credentials")
		fmt.Fprintln(w, strings.Repeat("-", width+64))
		for _, s := range statuses {
			model, substituted := provider.ResolveModel(s.Vendor, s.Model)
			if substituted {
				model += " (substituted)"
			}
			creds := "missing"
			if s.Available {
				creds = "ok"
			}
			fmt.Fprintf(w, "%s  %-18s  %-28s  %s\n", runewidth.FillRight(s.Name, width), s.Vendor, model, creds)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
