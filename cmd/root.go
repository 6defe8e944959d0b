// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ekart13/ripbox/internal/batch"
	"github.com/Ekart13/ripbox/internal/config"
	"github.com/Ekart13/ripbox/internal/cookies"
	"github.com/Ekart13/ripbox/internal/engine"
	"github.com/Ekart13/ripbox/internal/export"
	"github.com/Ekart13/ripbox/internal/format"
	"github.com/Ekart13/ripbox/internal/fsutil"
	"github.com/Ekart13/ripbox/internal/history"
	"github.com/Ekart13/ripbox/internal/logger"
	"github.com/Ekart13/ripbox/internal/prompt"
	"github.com/Ekart13/ripbox/internal/urltext"
	"github.com/Ekart13/ripbox/internal/validate"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagDir     string
	flagFormats string
	flagDebug   bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logg is the session logger, built after config load.
var logg *slog.Logger

// store records completed downloads; nil when the history database could
// not be opened.
var store *history.Store

var rootCmd = &cobra.Command{
	Use:   "ripbox",
	Short: "Batch video downloader powered by yt-dlp",
	Long: `Ripbox drives bulk media downloads through yt-dlp.
Paste URLs or point it at a batch file; it validates each URL, figures out
which cookie source (if any) the site needs, reuses that decision for the
rest of the batch, and exports to the formats you pick.`,
	PersistentPreRunE: loadConfig,
	RunE:              rootRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "Output subfolder under the download base")
	rootCmd.PersistentFlags().StringVarP(&flagFormats, "formats", "f", "", "Export formats, e.g. \"1 4\" or \"mp4,mp3\"")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads configuration, builds the logger, and opens the history
// store. A broken history database degrades to "no history", not a fatal.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagDebug {
		cfg.Debug = true
	}
	logg = logger.New(cfg.Debug)

	if dataDir, err := config.DataDir(); err == nil {
		store, err = history.Open(dataDir)
		if err != nil {
			logg.Warn("history disabled", slog.String("error", err.Error()))
			store = nil
		}
	}

	return nil
}

// rootRun is the interactive session. With piped stdin it consumes the
// whole input as pasted batch text and runs a single pass instead.
func rootRun(cmd *cobra.Command, args []string) error {
	defer closeStore()

	if !prompt.StdinIsTerminal() {
		return pipedRun(cmd.Context())
	}

	p, err := prompt.New()
	if err != nil {
		return fmt.Errorf("initializing prompt: %w", err)
	}
	defer p.Close()

	fmt.Println("=== ripbox: universal video downloader (YouTube / X / Instagram / TikTok / Facebook) ===")
	fmt.Println("Empty input exits. 'file' reads " + cfg.BatchFile + ". 'reset' clears folder, formats, and cookie lock.")
	fmt.Println()

	sources := cookies.Discover(cookies.ExecutableDir(), cfg.CookieFile, cfg.Browsers)
	state := batch.NewState(sources, logg)

	for {
		raw := p.Ask("→ Paste URL(s) or text: ")
		if raw == "" {
			fmt.Println("Done. Bye!")
			return nil
		}

		switch strings.ToLower(raw) {
		case "reset":
			state.Reset()
			fmt.Println("[i] Sticky state cleared.")
			continue
		case "file", "f":
			data, err := os.ReadFile(cfg.BatchFile)
			if err != nil {
				color.Red("✗ reading %s: %v", cfg.BatchFile, err)
				continue
			}
			raw = string(data)
		}

		urls := urltext.Extract(raw)
		if len(urls) == 0 {
			color.Yellow("No URLs found in input.")
			continue
		}
		fmt.Printf("[i] %d URL(s) queued.\n", len(urls))

		if state.OutputDir == "" {
			sub := p.Ask("→ Output subfolder (relative to Downloads, empty = Downloads): ")
			dir, err := resolveOutputDir(sub)
			if err != nil {
				// Re-prompt on the next loop iteration; not fatal.
				color.Red("✗ %v", err)
				continue
			}
			state.OutputDir = dir
		}
		fmt.Printf("[i] Saving to: %s\n", state.OutputDir)

		if len(state.Formats) == 0 {
			fmt.Println("\nExport formats:")
			for _, line := range format.MenuLines() {
				fmt.Println(line)
			}
			sel := p.Ask("→ Choose format(s) by number (e.g. 1 4). Enter = default MP4: ")
			if sel == "" {
				sel = cfg.DefaultFormats
			}
			state.Formats = format.Parse(sel)
		}
		fmt.Printf("[i] Export(s): %s\n", strings.Join(format.Exts(state.Formats), ", "))

		sum := runPass(cmd.Context(), urls, state.OutputDir, state.Formats, state.Negotiator)
		printSummary(sum)
	}
}

// pipedRun handles non-interactive stdin: the entire input is one batch.
func pipedRun(ctx context.Context) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	urls := urltext.Extract(string(data))
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found on stdin")
	}

	dir, err := resolveOutputDir(flagDir)
	if err != nil {
		return err
	}

	sources := cookies.Discover(cookies.ExecutableDir(), cfg.CookieFile, cfg.Browsers)
	neg := cookies.NewNegotiator(sources, logg)

	sum := runPass(ctx, urls, dir, selectedFormats(), neg)
	printSummary(sum)

	if len(sum.Failed) > 0 || len(sum.Invalid) > 0 {
		return fmt.Errorf("%d of %d URLs did not complete", len(sum.Failed)+len(sum.Invalid), sum.Total)
	}
	return nil
}

// selectedFormats resolves the non-interactive format selection: the
// --formats flag, falling back to the configured default.
func selectedFormats() []format.Format {
	sel := flagFormats
	if sel == "" {
		sel = cfg.DefaultFormats
	}
	return format.Parse(sel)
}

// resolveOutputDir expands the configured base and resolves the user's
// subfolder beneath it.
func resolveOutputDir(sub string) (string, error) {
	base, err := fsutil.ExpandBase(cfg.DownloadBase)
	if err != nil {
		return "", err
	}
	return fsutil.ResolveOutputDir(base, sub)
}

// runPass wires the validator, engine, exporter, and aggregator for one
// batch pass over the given URLs.
func runPass(ctx context.Context, urls []string, outDir string, formats []format.Format, neg *cookies.Negotiator) batch.Summary {
	v := validate.New(time.Duration(cfg.ProbeTimeoutSeconds) * time.Second)
	driver := export.New(engine.New(logg), neg, logg)

	var record batch.RecordFunc
	if store != nil {
		record = func(batchID, url, ext string, artifacts []string) {
			if err := store.Record(ctx, batchID, url, ext, artifacts); err != nil {
				logg.Warn("recording history failed", slog.String("error", err.Error()))
			}
		}
	}

	b := batch.New(v, driver, record, logg)
	return b.Run(ctx, urls, engine.Base(outDir, cfg), formats)
}

// printSummary renders the aggregate: counts, then the failed URLs bare for
// direct re-submission, then invalid URLs with their rejection reasons.
func printSummary(sum batch.Summary) {
	fmt.Printf("\nSummary: %d ok, %d failed, %d invalid (of %d)\n",
		len(sum.OK), len(sum.Failed), len(sum.Invalid), sum.Total)

	if len(sum.Failed) > 0 {
		color.Yellow("\nFailed URLs (paste back in to retry):")
		for _, u := range sum.FailedURLs() {
			fmt.Println(u)
		}
	}
	if len(sum.Invalid) > 0 {
		color.Red("\nInvalid URLs:")
		for _, r := range sum.Invalid {
			fmt.Printf("%s - %s\n", r.URL, r.Reason)
		}
	}
	fmt.Println()
}

func closeStore() {
	if store != nil {
		_ = store.Close()
	}
}
