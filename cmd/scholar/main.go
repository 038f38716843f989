// Package main is the operator CLI for the scholar site backend. It runs the
// same fetch, cache fallback and filter path as the server, once.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/msafzal/scholarsite/internal/cache"
	"github.com/msafzal/scholarsite/internal/config"
	"github.com/msafzal/scholarsite/internal/scholar"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Inspect the author dataset served by the site",
	Long: `scholar fetches the configured author's record from the search API,
normalizes it exactly like the server does and prints it. Configuration is
read from the same environment variables (and .env file) as the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log fetch details to stderr")
}

// newCache builds a cache from the environment. The window is zero so every
// command invocation goes to the upstream once.
func newCache(cmd *cobra.Command) (*cache.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := scholar.New(cfg.Scholar.AuthorID, cfg.Scholar.APIKey,
		scholar.WithBaseURL(cfg.Scholar.BaseURL),
		scholar.WithLocale(cfg.Scholar.Locale),
		scholar.WithLimit(cfg.Scholar.Limit),
		scholar.WithSort(cfg.Scholar.Sort),
	)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	return cache.New(client, 0, cache.WithLogger(logger), cache.WithTimeout(cfg.Cache.UpstreamTimeout)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
