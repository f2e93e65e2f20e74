package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/model"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search and fetch cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached search result and page",
	Long: `Remove the on-disk cache directory configured under cache.dir.

Use it after changing search providers or when cached pages are stale.
Running analyze or batch with --no-cache skips the cache without clearing it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return clearCache(cmd.OutOrStdout(), cfg.Cache)
	},
}

// clearCache empties the cache described by cfg, whether or not caching is
// currently enabled
func clearCache(w io.Writer, cfg model.CacheConfig) error {
	if cfg.Dir == "" {
		fmt.Fprintln(w, "No cache directory configured; nothing to clear")
		return nil
	}
	cfg.Enabled = true
	if err := cache.New(cfg).Clear(); err != nil {
		return fmt.Errorf("clear cache %s: %w", cfg.Dir, err)
	}
	fmt.Fprintf(w, "Cleared cache at %s\n", cfg.Dir)
	return nil
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
