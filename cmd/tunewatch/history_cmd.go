package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently organized files",
		Long: `List the most recent moves recorded in the history database.

Examples:
  tunewatch history
  tunewatch history --limit 10 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			db, err := openHistory(cfg)
			if err != nil {
				return fmt.Errorf("unable to open history database: %w", err)
			}
			defer db.Close()

			total, err := db.CountMoves()
			if err != nil {
				return err
			}
			if total == 0 {
				fmt.Println("No moves recorded yet")
				return nil
			}

			moves, err := db.RecentMoves(limit)
			if err != nil {
				return err
			}

			fmt.Printf("History: %d moves total, showing %d\n\n", total, len(moves))
			for _, m := range moves {
				fmt.Printf("%s  %s - %s (%s)\n",
					m.MovedAt.Format("2006-01-02 15:04"),
					m.Track.MainArtist, m.Track.Name, m.Track.Album)
				if verbose {
					fmt.Printf("    %s\n    -> %s\n", m.Source, m.Destination)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "number of moves to show")

	return cmd
}
