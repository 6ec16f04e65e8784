package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().IntVarP(&flagWidth, "width", "w", 0, "Wrap width in cells (0 = detect terminal)")
	rootCmd.PersistentFlags().StringVar(&flagStyle, "style", "", "Markdown style: dark, light, notty")
}

var rootCmd = &cobra.Command{
	Use:   "streamdown",
	Short: "Render streaming markdown in the terminal",
	Long: `streamdown renders a markdown stream block by block as it arrives,
repainting only the blocks that changed since the previous frame.

Examples:
  some-llm-cli | streamdown render        # live-render a token stream
  streamdown render doc.md --chunk 16 --delay 20ms   # replay a file as a stream
  streamdown blocks doc.md                # inspect how a document splits into blocks`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var (
	flagWidth int
	flagStyle string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
