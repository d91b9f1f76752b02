package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tunewatch/internal/config"
	"github.com/Nomadcxx/tunewatch/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tunewatch configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists() && !force {
				path, _ := paths.ConfigPath()
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}

			path, _ := paths.ConfigPath()
			fmt.Printf("Created %s\n", path)
			fmt.Println("Edit it to set library.root and watch.dirs")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cfgFile != "" {
				fmt.Printf("# from %s\n", cfgFile)
			} else if path, err := paths.ConfigPath(); err == nil {
				if config.ConfigExists() {
					fmt.Printf("# from %s\n", path)
				} else {
					fmt.Printf("# defaults (no file at %s)\n", path)
				}
			}

			os.Stdout.WriteString(cfg.ToTOML())
			return nil
		},
	}
}
