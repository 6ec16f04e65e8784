package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// cursorControl repositions the cursor so already-painted blocks can be
// erased and repainted in place when a diff reports them changed.
type cursorControl struct {
	output io.Writer
	width  int
}

func newCursorControl(output io.Writer, width int) *cursorControl {
	return &cursorControl{output: output, width: width}
}

// clearLines moves the cursor up n lines and erases from there to the end
// of the screen.
func (c *cursorControl) clearLines(n int) error {
	if n <= 0 {
		return nil
	}

	seq := ansi.CursorUp(n)
	seq += ansi.CursorHorizontalAbsolute(1)
	seq += ansi.EraseDisplay(0)

	_, err := c.output.Write([]byte(seq))
	return err
}

// countLines calculates how many terminal rows the rendered string
// occupies, accounting for soft wrapping at the terminal width and for
// ANSI escape sequences that take no cells.
func (c *cursorControl) countLines(rendered string) int {
	if len(rendered) == 0 {
		return 0
	}

	lines := strings.Split(rendered, "\n")
	total := 0
	for i, line := range lines {
		// The empty string after a trailing newline is not a row.
		if i == len(lines)-1 && line == "" {
			continue
		}

		w := ansi.StringWidth(line)
		switch {
		case w == 0:
			total++
		case c.width > 0:
			total += (w + c.width - 1) / c.width
		default:
			total++
		}
	}
	return total
}
