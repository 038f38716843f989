package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/msafzal/scholarsite/internal/filter"
)

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Print the publication list, optionally filtered",
	Long: `Publications prints the same JSON array GET /api/publications returns.

Examples:
  scholar publications --search wave
  scholar publications --year 2021`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var q filter.Query
		q.Search, _ = cmd.Flags().GetString("search")
		q.Year, _ = cmd.Flags().GetString("year")

		c, err := newCache(cmd)
		if err != nil {
			return err
		}
		ds := c.Get(cmd.Context())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(filter.Apply(ds.Publications, q))
	},
}

func init() {
	publicationsCmd.Flags().String("search", "", "case-insensitive substring of title, authors, journal or year")
	publicationsCmd.Flags().String("year", "", "exact publication year")
	rootCmd.AddCommand(publicationsCmd)
}
