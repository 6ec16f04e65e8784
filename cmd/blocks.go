package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/streamdown/streamdown/internal/blocks"
	"github.com/streamdown/streamdown/internal/ui"
)

func init() {
	rootCmd.AddCommand(blocksCmd)
}

var blocksCmd = &cobra.Command{
	Use:   "blocks [file]",
	Short: "Show how a document splits into blocks",
	Long: `blocks parses a markdown document from stdin or a file and prints the
resulting block list, one line per block. Useful for checking how a
stream will be segmented before rendering it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBlocks,
}

func runBlocks(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := ui.NewStyles(out)

	parsed := blocks.Parse(string(text))
	for i, b := range parsed {
		fmt.Fprintln(out, formatBlock(i, b, styles))
	}
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d blocks", len(parsed))))
	return nil
}

func formatBlock(index int, b blocks.Block, styles *ui.Styles) string {
	label := b.Kind.String()
	switch b.Kind {
	case blocks.Heading:
		label = fmt.Sprintf("%s(%d)", label, b.Level)
	case blocks.Bullet:
		label = fmt.Sprintf("%s(depth %d)", label, b.Level)
	case blocks.NumberedItem:
		label = fmt.Sprintf("%s(%d.)", label, b.Level)
	case blocks.CodeBlock:
		if b.Language != "" {
			label = fmt.Sprintf("%s(%s)", label, b.Language)
		}
	}

	preview := strings.ReplaceAll(b.Content, "\n", "␤")
	preview = truncate.StringWithTail(preview, 60, "…")

	return fmt.Sprintf("%s %s %s",
		styles.Muted.Render(fmt.Sprintf("%3d", index)),
		styles.Highlighted.Render(fmt.Sprintf("%-18s", label)),
		preview)
}
