package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tunewatch/internal/logging"
	"github.com/Nomadcxx/tunewatch/internal/manifest"
	"github.com/Nomadcxx/tunewatch/internal/organizer"
	"github.com/Nomadcxx/tunewatch/internal/scanner"
	"github.com/Nomadcxx/tunewatch/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		libraryPath string
		settle      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [directory...]",
		Short: "Watch directories and organize incoming music",
		Long: `Monitor directories and organize new music files as they arrive.

Directories default to watch.dirs from the config file. Each detected file
is given a settle delay before processing so partially written downloads
are not picked up mid-transfer.

Examples:
  tunewatch watch /downloads/music --library /media/Music
  tunewatch watch              # directories and library from config
  tunewatch watch /downloads -n`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}

			dirs := args
			if len(dirs) == 0 {
				dirs = cfg.Watch.Dirs
			}
			if len(dirs) == 0 {
				return fmt.Errorf("no directories to watch (pass them as arguments or set watch.dirs in config)")
			}

			target := libraryPath
			if target == "" {
				target = cfg.Library.Root
			}
			if target == "" {
				return fmt.Errorf("no library specified (use --library or set library.root in config)")
			}

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("unable to set up logging: %w", err)
			}
			defer log.Close()

			runDry := dryRun || cfg.Options.DryRun

			sink, err := manifest.Open(fmt.Sprintf("musics_%s.csv", time.Now().Format("20060102")))
			if err != nil {
				return fmt.Errorf("unable to open manifest: %w", err)
			}
			defer sink.Close()

			options := []func(*organizer.Organizer){
				organizer.WithDryRun(runDry),
				organizer.WithLogger(log),
			}
			if cfg.History.Enabled && !runDry {
				db, err := openHistory(cfg)
				if err != nil {
					log.Warn("watch", "move history disabled", logging.F("error", err))
				} else {
					defer db.Close()
					options = append(options, organizer.WithHistory(db))
				}
			}

			handler := &musicHandler{
				org:    organizer.New(target, options...),
				sink:   sink,
				log:    log,
				settle: settle,
				dryRun: runDry,
			}

			w, err := watcher.New(handler, watcher.WithLogger(log))
			if err != nil {
				return fmt.Errorf("unable to create watcher: %w", err)
			}
			defer w.Close()

			if err := w.Watch(dirs); err != nil {
				return fmt.Errorf("unable to set up watch: %w", err)
			}

			for _, dir := range dirs {
				fmt.Printf("Watching: %s\n", dir)
			}
			fmt.Printf("Library:  %s\n", target)
			if runDry {
				fmt.Println("Mode: DRY RUN (no files will be moved)")
			}
			fmt.Println("\nPress Ctrl+C to stop")

			return w.Start()
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "target library path")
	cmd.Flags().DurationVar(&settle, "settle", 5*time.Second, "delay before processing a detected file")

	return cmd
}

// musicHandler organizes files the watcher reports, one at a time.
type musicHandler struct {
	org    *organizer.Organizer
	sink   *manifest.Writer
	log    *logging.Logger
	settle time.Duration
	dryRun bool
}

func (h *musicHandler) IsMusicFile(path string) bool {
	return scanner.IsMusicFile(path)
}

func (h *musicHandler) HandleFileEvent(event watcher.FileEvent) error {
	if event.Type == watcher.EventDelete {
		return nil
	}

	// Let the writer finish; downloads fire a stream of write events.
	if h.settle > 0 {
		time.Sleep(h.settle)
	}

	res := h.org.ProcessFile(event.Path)
	if !res.Moved {
		return res.Err
	}

	fmt.Println(res.String())

	if !h.dryRun {
		if err := h.sink.Append(manifest.Row{
			Name:       res.Track.Name,
			Artists:    res.Track.Artists,
			MainArtist: res.Track.MainArtist,
			Year:       res.Track.Year,
			Album:      res.Track.Album,
			NewPath:    res.Target,
		}); err != nil {
			h.log.Error("manifest", "unable to append manifest row", err, logging.F("file", event.Path))
		}
		if err := h.sink.Flush(); err != nil {
			h.log.Error("manifest", "unable to flush manifest", err)
		}
	}

	return nil
}
