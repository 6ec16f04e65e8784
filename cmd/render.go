package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streamdown/streamdown/internal/blocks"
	"github.com/streamdown/streamdown/internal/config"
	"github.com/streamdown/streamdown/internal/render"
	"github.com/streamdown/streamdown/internal/throttle"
	"github.com/streamdown/streamdown/internal/ui"
)

func init() {
	renderCmd.Flags().StringVar(&flagMode, "mode", "", "Output mode: repaint or flow")
	renderCmd.Flags().IntVar(&flagInterval, "interval", 0, "Minimum milliseconds between repaints")
	renderCmd.Flags().IntVar(&flagChunk, "chunk", 512, "Read size in bytes, for replaying files as streams")
	renderCmd.Flags().DurationVar(&flagDelay, "delay", 0, "Pause between chunks when replaying a file")
	rootCmd.AddCommand(renderCmd)
}

var (
	flagMode     string
	flagInterval int
	flagChunk    int
	flagDelay    time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a markdown stream from stdin or a file",
	Long: `render consumes markdown from stdin (or replays a file in chunks) and
draws it block by block as the text arrives. Repaints are throttled so a
fast token stream does not flood the terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(flagMode, flagInterval, flagWidth)
	if flagStyle != "" {
		cfg.Style = flagStyle
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	out := os.Stdout
	interactive := term.IsTerminal(int(out.Fd()))

	width := cfg.Width
	if width == 0 {
		if interactive {
			if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
				width = w
			}
		}
		if width == 0 {
			width = 80
		}
	}

	// Repainting in place needs a real terminal to move the cursor on.
	repaint := cfg.Mode == "repaint" && interactive

	renderer, err := render.New(out, render.Options{
		Width:        width,
		GlamourStyle: cfg.Style,
		ChromaStyle:  cfg.CodeStyle,
		CacheSize:    cfg.CacheSize,
		Repaint:      repaint,
		Theme:        ui.ThemeFromConfig(cfg.Theme),
	})
	if err != nil {
		return err
	}

	if repaint {
		termOut := termenv.NewOutput(out)
		termOut.HideCursor()
		defer termOut.ShowCursor()
	}

	return stream(in, renderer, cfg)
}

// stream pumps snapshots of the growing document through the throttle
// into the renderer, then flushes the final state.
func stream(in io.Reader, renderer *render.Renderer, cfg *config.Config) error {
	session := &blocks.Session{}

	var renderErr error
	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	scheduler := throttle.New(interval, func(text string) {
		current, changes := session.Update(text)
		if err := renderer.Apply(current, changes); err != nil && renderErr == nil {
			renderErr = err
		}
	})
	defer scheduler.Stop()

	var doc []byte
	chunk := flagChunk
	if chunk <= 0 {
		chunk = 512
	}
	buf := make([]byte, chunk)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			doc = append(doc, buf[:n]...)
			scheduler.Submit(string(doc))
			if flagDelay > 0 {
				time.Sleep(flagDelay)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}

	// Flush runs the callback synchronously, so the screen reflects the
	// complete document before Finish emits anything flowing mode held.
	scheduler.Flush()
	if renderErr != nil {
		return renderErr
	}
	return renderer.Finish(session.Blocks())
}
