package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tunewatch/internal/config"
	"github.com/Nomadcxx/tunewatch/internal/database"
	"github.com/Nomadcxx/tunewatch/internal/manifest"
	"github.com/Nomadcxx/tunewatch/internal/organizer"
)

func newOrganizeCmd() *cobra.Command {
	var (
		libraryPath  string
		manifestPath string
		batchSize    int
		deleteEmpty  bool
	)

	cmd := &cobra.Command{
		Use:   "organize <source> [library]",
		Short: "Organize music files into the library",
		Long: `Scan source for music files and move them into the library.

Each file is filed by its tags under <library>/<Letter>/<Album Artist>/<Album>/.
Files whose tags cannot be read are logged and left in place. A CSV manifest
of the run is appended to the manifest file (created if missing).

Examples:
  tunewatch organize /downloads/music /media/Music
  tunewatch organize /downloads/music --library /media/Music --delete-empty
  tunewatch organize /downloads/music /media/Music --dry-run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			target := libraryPath
			if len(args) > 1 {
				target = args[1]
			}
			if target == "" {
				target = cfg.Library.Root
			}
			if target == "" {
				return fmt.Errorf("no library specified (use --library or set library.root in config)")
			}

			if batchSize == 0 {
				batchSize = cfg.Options.BatchSize
			}
			if !cmd.Flags().Changed("delete-empty") {
				deleteEmpty = cfg.Options.DeleteEmpty
			}
			runDry := dryRun || cfg.Options.DryRun

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("unable to set up logging: %w", err)
			}
			defer log.Close()

			if manifestPath == "" {
				manifestPath = fmt.Sprintf("musics_%s.csv", time.Now().Format("20060102"))
			}
			sink, err := manifest.Open(manifestPath)
			if err != nil {
				return fmt.Errorf("unable to open manifest: %w", err)
			}
			defer sink.Close()

			options := []func(*organizer.Organizer){
				organizer.WithBatchSize(batchSize),
				organizer.WithDryRun(runDry),
				organizer.WithDeleteEmpty(deleteEmpty),
				organizer.WithLogger(log),
				organizer.WithProgress(func(done, total int, path string) {
					fmt.Printf("\rProcessing %d/%d: %s", done, total, filepath.Base(path))
				}),
			}

			if cfg.History.Enabled && !runDry {
				db, err := openHistory(cfg)
				if err != nil {
					// History is best effort; the organize run matters more.
					fmt.Fprintf(os.Stderr, "warning: move history disabled: %v\n", err)
				} else {
					defer db.Close()
					options = append(options, organizer.WithHistory(db))
				}
			}

			org := organizer.New(target, options...)

			if runDry {
				fmt.Println("Mode: DRY RUN (no files will be moved)")
			}

			result, err := org.Run(source, sink)
			if err != nil {
				return err
			}
			fmt.Println()

			fmt.Printf("Scanned: %d files\n", result.Scanned)
			fmt.Printf("Moved:   %d\n", result.Moved)
			fmt.Printf("Skipped: %d\n", result.Skipped)
			if deleteEmpty && !runDry {
				fmt.Printf("Empty folders removed: %d\n", result.EmptyDirsRemoved)
			}
			fmt.Printf("Done in %s\n", result.Duration.Round(time.Millisecond))
			if !runDry {
				fmt.Printf("Manifest: %s\n", sink.Path())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "target library path")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest CSV path (default: musics_<date>.csv)")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "files per batch (default from config)")
	cmd.Flags().BoolVar(&deleteEmpty, "delete-empty", false, "delete directories left empty under the source")

	return cmd
}

func openHistory(cfg *config.Config) (*database.HistoryDB, error) {
	if cfg.History.Path != "" {
		return database.OpenPath(cfg.History.Path)
	}
	return database.Open()
}
