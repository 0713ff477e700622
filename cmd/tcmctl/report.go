package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/tcm-study-api/catalog"
	"github.com/andrewpaige1/tcm-study-api/logger"
)

func newReportCmd() *cobra.Command {
	var baseURL, kind string
	var showUnmatched bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load a catalog from a running API and report unmatched entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := catalog.ParseKind(kind)
			if err != nil {
				return err
			}
			src := catalog.HTTPSource{BaseURL: baseURL, Client: &http.Client{Timeout: 30 * time.Second}}
			loader := &catalog.Loader{Trees: src, Collections: src, Log: logger.Nop()}
			c, err := loader.Load(cmd.Context(), k)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total, matched := 0, 0
			badges := map[string]int{}
			c.Tree.Walk(func(_, _, _ int, e *catalog.Entry) bool {
				total++
				if e.Matched {
					matched++
					badges[e.Badge]++
				} else if showUnmatched {
					fmt.Fprintf(out, "unmatched: %s (%s)\n", e.DisplayName(), e.Category)
				}
				return true
			})
			fmt.Fprintf(out, "%s: %d entries, %d matched\n", k, total, matched)
			for _, b := range []string{catalog.BadgeCombined, catalog.BadgeNCCAOM, catalog.BadgeCALE, catalog.BadgeExtra} {
				fmt.Fprintf(out, "  %-14s %d\n", b, badges[b])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the API")
	cmd.Flags().StringVar(&kind, "kind", "herbs", "herbs or formulas")
	cmd.Flags().BoolVar(&showUnmatched, "unmatched", false, "list entries without a match")
	return cmd
}
