package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanlinsun/bookeditor/internal/book"
	"github.com/yanlinsun/bookeditor/internal/config"
	"github.com/yanlinsun/bookeditor/internal/reader"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile    string
	verbose    bool
	formatName string

	cfgManager *config.Manager
	logger     = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "bookeditor",
	Short: "Rebuild books from scraped forum threads",
	Long: `bookeditor reads a forum thread saved by the web scraper and rebuilds it
as a book: title, author, date and publisher, plus chapters ordered by the
numerals in their titles. Chapters hidden inside another chapter's text are
split out, and short nested fragments are set aside.

Books written back out by the editor can be read as well.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgManager = mgr
		logger = newLogger(mgr.Get(), verbose)
		if f := mgr.ConfigFile(); f != "" {
			logger.Debug("config loaded", "file", f)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or <user config dir>/bookeditor/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(
		&formatName, "format", "", fmt.Sprintf("force an input format %v", reader.SupportedFormats()),
	)

	rootCmd.AddCommand(parseCmd, tocCmd, browseCmd, watchCmd, configCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bookeditor %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadBook parses filename with the current config and flags.
func loadBook(filename string) (*book.Book, error) {
	return loadBookWith(cfgManager.Get(), filename)
}

func loadBookWith(cfg *config.Config, filename string) (*book.Book, error) {
	opts := cfg.ReaderOptions(logger)
	opts.Format = formatName
	return reader.Load(filename, opts)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
