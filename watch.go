package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yanlinsun/bookeditor/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-parse a file whenever it or the config changes",
	Long: `Watch a scraped thread and print a summary of the rebuilt book each time
the file is written. Edits to the config file (ignore_threshold, max_indent,
site_aliases) re-parse it too. Stops on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), cfgManager, filename, cmd.OutOrStdout())
	},
}

// runWatch prints a summary of filename now, on every write of the file and
// on every reload of the config, until ctx is done.
func runWatch(ctx context.Context, mgr *config.Manager, filename string, out io.Writer) error {
	var mu sync.Mutex
	summarize := func(cfg *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		b, err := loadBookWith(cfg, filename)
		if err != nil {
			logger.Error("parse failed", "file", filename, "error", err)
			return
		}
		fmt.Fprintf(out, "%s: %d chapters, %d ignored\n", b.Title, b.Len(), len(b.Ignored()))
	}
	w, err := newFileWatcher(filename)
	if err != nil {
		return err
	}
	defer w.Close()

	mgr.OnChange(func(cfg *config.Config) {
		logger.Info("config reloaded", "file", mgr.ConfigFile())
		summarize(cfg)
	})
	if !mgr.WatchConfig() {
		logger.Debug("no config file to watch")
	}

	summarize(mgr.Get())
	return watchLoop(ctx, w, filename, logger, func() { summarize(mgr.Get()) })
}

// newFileWatcher watches the directory holding filename, since editors and
// scrapers often replace a file rather than write it in place.
func newFileWatcher(filename string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(filename)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filename, err)
	}
	return w, nil
}

// watchLoop calls onChange for every write or create of filename until ctx
// is done or the watcher closes.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, filename string, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filename {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				logger.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
