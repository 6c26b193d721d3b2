package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bailus/pinpoint/pkg/cache"
	"github.com/bailus/pinpoint/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the placement response cache",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			fmt.Println(StyleTitle.Render("Placement response cache"))
			for _, row := range cacheInfoRows(cfg.Cache, dir) {
				printKeyValue(row[0], row[1])
			}
			return nil
		},
	}
}

// cacheInfoRows builds the key-value rows shown by "cache info".
func cacheInfoRows(cfg config.CacheCfg, dir string) [][2]string {
	backend := cfg.Backend
	if backend == "" {
		backend = "file"
	}

	rows := [][2]string{{"Backend", backend}}
	switch backend {
	case "file":
		rows = append(rows, [2]string{"Directory", dir})
	case "redis":
		rows = append(rows,
			[2]string{"Address", cfg.RedisAddr},
			[2]string{"Database", fmt.Sprintf("%d", cfg.RedisDB)},
		)
	}
	if backend != "null" {
		rows = append(rows, [2]string{"TTL", cfg.TTL.Std().String()})
	}
	return rows
}

// fileCacheDir resolves the file cache directory, honoring the config
// override.
func (c *CLI) fileCacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached placement responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Purge()
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
