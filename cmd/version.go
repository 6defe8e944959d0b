package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ekart13/ripbox/internal/engine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ripbox and yt-dlp versions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ripbox %s\n", Version)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if v, err := engine.Version(ctx); err == nil {
			fmt.Printf("yt-dlp %s\n", v)
		} else {
			fmt.Println("yt-dlp not available")
		}
	},
}
