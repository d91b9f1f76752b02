package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tunewatch/internal/organizer"
)

func newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup <directory>",
		Short: "Delete empty directories under a tree",
		Long: `Remove directories that are currently empty under the given tree.

This is a single pass: a parent that becomes empty only because its children
were just deleted survives until the next invocation. The tree root itself is
never removed.

Examples:
  tunewatch cleanup /downloads/music
  tunewatch cleanup /downloads/music --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("unable to set up logging: %w", err)
			}
			defer log.Close()

			if dryRun {
				// The pass mutates as it goes, so preview just lists candidates.
				empty, err := listEmptyDirs(root)
				if err != nil {
					return err
				}
				for _, dir := range empty {
					fmt.Printf("would delete: %s\n", dir)
				}
				fmt.Printf("[dry-run] %d empty directories\n", len(empty))
				return nil
			}

			org := organizer.New("", organizer.WithLogger(log))
			removed, err := org.CollectEmptyDirs(root)
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %d empty directories\n", removed)
			return nil
		},
	}

	return cmd
}

func listEmptyDirs(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var empty []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		entries, err := os.ReadDir(path)
		if err == nil && len(entries) == 0 {
			empty = append(empty, path)
		}
		return nil
	})
	return empty, err
}
