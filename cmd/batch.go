package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ekart13/ripbox/internal/cookies"
	"github.com/Ekart13/ripbox/internal/urltext"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Download every URL from a batch file, non-interactively",
	Long: `Reads a plain-text URL list (comment lines starting with # are ignored,
URLs may be interspersed in prose) and runs one batch pass over it.
Defaults to the configured batch file when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: batchRun,
}

func batchRun(cmd *cobra.Command, args []string) error {
	defer closeStore()

	path := cfg.BatchFile
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	urls := urltext.Extract(string(data))
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", path)
	}

	dir, err := resolveOutputDir(flagDir)
	if err != nil {
		return err
	}

	sources := cookies.Discover(cookies.ExecutableDir(), cfg.CookieFile, cfg.Browsers)
	neg := cookies.NewNegotiator(sources, logg)

	sum := runPass(cmd.Context(), urls, dir, selectedFormats(), neg)
	printSummary(sum)

	if len(sum.Failed) > 0 || len(sum.Invalid) > 0 {
		return fmt.Errorf("%d of %d URLs did not complete", len(sum.Failed)+len(sum.Invalid), sum.Total)
	}
	return nil
}
