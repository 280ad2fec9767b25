// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digitalislam/dicms/internal/version"
)

func listCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "Print the documents of a collection as JSON",
		Long: `Print every document of a collection as indented JSON.

Collections: hero_content, gallery, projects, hero_carousel, volunteers, donors`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, closeFn, err := load(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := data.List(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
}

func statusCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load every collection and report the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			report := data.Initialize(cmd.Context())
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Collections")
			_, _ = fmt.Fprintln(out, strings.Repeat("=", 40))
			for _, st := range data.Status() {
				_, _ = fmt.Fprintf(out, "  %-14s %-8s %d\n", st.Name+":", st.State, st.Items)
			}
			if failed := report.Failed(); len(failed) > 0 {
				return fmt.Errorf("failed to load %s: %w", strings.Join(failed, ", "), report.Err())
			}
			_, _ = fmt.Fprintf(out, "\nLoaded in %s\n", report.Duration)
			return nil
		},
	}
}

func seedCmd(open openFunc) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed-projects",
		Short: "Create the default fundraising projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, closeFn, err := load(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer closeFn()

			if n := data.Projects.Len(); n > 0 && !force {
				return fmt.Errorf("%d projects already exist, use --force to seed anyway", n)
			}
			if err := data.SeedDefaults(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded projects, %d total\n", data.Projects.Len())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Seed even if projects exist")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dicmsctl %s\n", version.Current())
		},
	}
}
