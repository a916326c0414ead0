package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
		Long: `Manage the result cache.

The cache location is taken from $FOLIO_CACHE_URL, then from the [cache]
section of the config file, and defaults to a directory under
$XDG_CACHE_HOME (or ~/.cache).`,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (TOML)")

	cmd.AddCommand(c.cacheInfoCommand(&configPath))
	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))

	return cmd
}

// openConfiguredCache opens the cache named by the config file or the
// environment.
func openConfiguredCache(ctx context.Context, configPath string) (cache.Cache, string, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, "", err
	}
	url := cacheURL(cfg)
	store, err := cache.Open(ctx, url)
	if err != nil {
		return nil, "", err
	}
	return store, url, nil
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, url, err := openConfiguredCache(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			switch s := store.(type) {
			case *cache.FileCache:
				entries, size, err := s.Stats()
				if err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
				printKeyValue("Backend", "file")
				printKeyValue("Directory", s.Dir())
				printKeyValue("Entries", fmt.Sprint(entries))
				printKeyValue("Size", formatBytes(size))
			case *cache.RedisCache:
				printKeyValue("Backend", "redis")
				printKeyValue("URL", url)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openConfiguredCache(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var (
				count int
				dir   string
			)
			switch s := store.(type) {
			case *cache.FileCache:
				count, err = s.Clear()
				dir = s.Dir()
			case *cache.RedisCache:
				count, err = s.Clear(cmd.Context())
			default:
				printInfo("Caching is disabled")
				return nil
			}
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			if dir != "" {
				printDetail("Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openConfiguredCache(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer store.Close()

			fc, ok := store.(*cache.FileCache)
			if !ok {
				return fmt.Errorf("cache is not a directory")
			}
			fmt.Println(fc.Dir())
			return nil
		},
	}
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
