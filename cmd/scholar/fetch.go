package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/msafzal/scholarsite/internal/scholar"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and print the normalized dataset",
	Long: `Fetch calls the search API once and prints the normalized profile and
publication list. When the upstream fails the built-in default dataset is
printed instead, as the server would serve it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		c, err := newCache(cmd)
		if err != nil {
			return err
		}
		ds, src := c.Lookup(cmd.Context())
		if err := writeDataset(cmd.OutOrStdout(), ds, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "source: %s, %d publications\n", src, len(ds.Publications))
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("format", "json", "output format: json or yaml")
	rootCmd.AddCommand(fetchCmd)
}

func writeDataset(w io.Writer, ds scholar.Dataset, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
