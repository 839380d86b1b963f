package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/cache"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached reports and diagrams",
		Long: `Analysis reports and rendered diagrams are cached per graph snapshot,
rule table and build version. Entries expire after cache_ttl.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache location and size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withCacheDir(func(fc *cache.FileCache) error {
					u, err := fc.Usage()
					if err != nil {
						return fmt.Errorf("read cache: %w", err)
					}
					printKeyValue("Directory", fc.Dir())
					printKeyValue("Entries", fmt.Sprint(u.Entries))
					printKeyValue("Size", fmt.Sprintf("%.1f KiB", float64(u.Bytes)/1024))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withCacheDir(func(fc *cache.FileCache) error {
					u, _ := fc.Usage()
					if err := fc.Clear(); err != nil {
						return fmt.Errorf("clear cache: %w", err)
					}
					printSuccess("Cleared %d cached entries", u.Entries)
					printDetail("directory: %s", fc.Dir())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				fmt.Fprintln(stdout, dir)
				return nil
			},
		},
	)
	return cmd
}

// withCacheDir opens the configured cache directory for fn. A directory
// that was never created is reported as empty.
func (c *CLI) withCacheDir(fn func(*cache.FileCache) error) error {
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("locate cache: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	return fn(fc)
}
