package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-corpus/internal/ledger"
)

func (c *cli) runsCmd() *cobra.Command {
	var (
		limit  int
		site   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent scrape runs from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			l, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return err
			}
			defer l.Close()

			reports, err := l.Recent(limit, site)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}

			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tSITE\tDISCOVERED\tWRITTEN\tSKIPPED\tSTATUS\tRUN")
			for _, r := range reports {
				status := "ok"
				if r.Failed != "" {
					status = "failed"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					r.StartedAt.Local().Format(time.DateTime), r.Site, r.Discovered, r.Written, r.Skipped, status, r.RunID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")
	cmd.Flags().StringVar(&site, "site", "", "only show runs of this site")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full run reports, including per-link outcomes, as JSON")
	return cmd
}
