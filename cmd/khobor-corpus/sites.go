package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the configured news sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadSites(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLISTING\tLINKS\tFILTER")
			for _, s := range reg.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.ListingURL, s.LinkSelector, s.LinkPathFilter)
			}
			return w.Flush()
		},
	}
}
