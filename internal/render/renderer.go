// Package render turns parsed blocks into styled terminal output. It owns
// the two output strategies: repaint mode redraws the tail of the screen
// whenever a block changes, flowing mode appends blocks once they are
// complete and never touches what it already wrote.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/streamdown/streamdown/internal/blocks"
	"github.com/streamdown/streamdown/internal/ui"
)

// Options configures a Renderer.
type Options struct {
	// Width is the wrap width in terminal cells. Defaults to 80.
	Width int
	// GlamourStyle names the glamour style set, e.g. "dark" or "light".
	GlamourStyle string
	// ChromaStyle names the syntax highlighting style for code blocks.
	ChromaStyle string
	// CacheSize bounds the per-block render cache.
	CacheSize int
	// Repaint enables in-place redraws via cursor control. When false the
	// renderer flows: blocks are written once, after they complete.
	Repaint bool
	// Theme overrides the default color theme.
	Theme *ui.Theme
}

// paintedBlock records what repaint mode has on screen for one block
// index, so a redraw knows how many lines to clear.
type paintedBlock struct {
	key   string
	lines int
}

// Renderer writes blocks to a terminal, reusing cached output for blocks
// that have not changed since the previous frame.
type Renderer struct {
	out     io.Writer
	width   int
	repaint bool

	markdown *glamour.TermRenderer
	code     *highlighter
	styles   *ui.Styles
	cache    *renderCache

	ctrl    *cursorControl
	painted []paintedBlock // repaint mode: current screen contents
	written int            // flowing mode: count of blocks already emitted
}

// New builds a Renderer writing to out.
func New(out io.Writer, opts Options) (*Renderer, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := opts.GlamourStyle
	if style == "" {
		style = "dark"
	}

	markdown, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("glamour renderer: %w", err)
	}

	var styles *ui.Styles
	if opts.Theme != nil {
		styles = ui.NewStylesWithTheme(out, opts.Theme)
	} else {
		styles = ui.NewStyles(out)
	}

	r := &Renderer{
		out:      out,
		width:    width,
		repaint:  opts.Repaint,
		markdown: markdown,
		code:     newHighlighter(opts.ChromaStyle),
		styles:   styles,
		cache:    newRenderCache(opts.CacheSize),
	}
	if opts.Repaint {
		r.ctrl = newCursorControl(out, width)
	}
	return r, nil
}

// Apply renders one frame. In repaint mode it clears everything from the
// first changed block downward and redraws the tail; in flowing mode it
// emits blocks that became complete since the last call and holds back
// the still-growing final block.
func (r *Renderer) Apply(current []blocks.Block, changes []blocks.Change) error {
	if r.repaint {
		return r.applyRepaint(current, changes)
	}
	return r.applyFlowing(current)
}

func (r *Renderer) applyRepaint(current []blocks.Block, changes []blocks.Change) error {
	firstDirty := len(current)
	for _, ch := range changes {
		if ch.Kind == blocks.Unchanged {
			continue
		}
		if ch.Index < firstDirty {
			firstDirty = ch.Index
		}
	}
	if firstDirty >= len(current) && len(r.painted) <= len(current) {
		return nil
	}
	if firstDirty > len(r.painted) {
		firstDirty = len(r.painted)
	}

	stale := 0
	for _, p := range r.painted[firstDirty:] {
		stale += p.lines
	}
	if err := r.ctrl.clearLines(stale); err != nil {
		return err
	}
	r.painted = r.painted[:firstDirty]

	for _, b := range current[firstDirty:] {
		rendered := r.renderBlock(b)
		if _, err := io.WriteString(r.out, rendered+"\n"); err != nil {
			return err
		}
		// The trailing newline leaves the cursor on the row after the
		// block, so the rows occupied equal the up-distance back to it.
		r.painted = append(r.painted, paintedBlock{
			key:   b.Key(),
			lines: r.ctrl.countLines(rendered),
		})
	}
	return nil
}

func (r *Renderer) applyFlowing(current []blocks.Block) error {
	// The final block may still be growing, so it stays unwritten until
	// either a later block pushes it out or Finish runs.
	complete := len(current) - 1
	if complete < 0 {
		complete = 0
	}
	return r.flow(current[:complete])
}

func (r *Renderer) flow(complete []blocks.Block) error {
	for r.written < len(complete) {
		rendered := r.renderBlock(complete[r.written])
		if _, err := io.WriteString(r.out, rendered+"\n"); err != nil {
			return err
		}
		r.written++
	}
	return nil
}

// Finish flushes whatever Apply held back. Repaint mode redraws nothing
// here: the caller's final Apply already left the screen exact.
func (r *Renderer) Finish(current []blocks.Block) error {
	if r.repaint {
		return nil
	}
	return r.flow(current)
}

// Reset forgets all painted and emitted state. The next Apply starts a
// fresh document.
func (r *Renderer) Reset() {
	r.painted = r.painted[:0]
	r.written = 0
	r.cache.invalidateAll()
}

// renderBlock produces the styled text for one block, consulting the
// cache first. Identical blocks render identically at a given width, so
// the block key plus width is a sound cache key.
func (r *Renderer) renderBlock(b blocks.Block) string {
	key := fmt.Sprintf("%s\x00%d", b.Key(), r.width)
	if cached, ok := r.cache.get(key); ok {
		return cached
	}
	rendered := r.renderUncached(b)
	r.cache.put(key, rendered)
	return rendered
}

func (r *Renderer) renderUncached(b blocks.Block) string {
	switch b.Kind {
	case blocks.CodeBlock:
		return r.renderCode(b.Content, b.Language)
	case blocks.Mermaid:
		// No terminal mermaid backend; show the diagram source.
		return r.renderCode(b.Content, "mermaid")
	case blocks.Chart:
		if out, ok := renderChart(b.Content, r.width, r.styles); ok {
			return out
		}
		return r.renderCode(b.Content, "yaml")
	case blocks.Confidence:
		if out, ok := renderConfidence(b.Content, r.width, r.styles); ok {
			return out
		}
		return r.renderCode(b.Content, "yaml")
	case blocks.Comparison:
		if out, ok := renderComparison(b.Content, r.width, r.styles); ok {
			return out
		}
		return r.renderCode(b.Content, "yaml")
	case blocks.Card:
		if out, ok := renderCard(b.Content, r.width, r.styles); ok {
			return out
		}
		return r.renderCode(b.Content, "yaml")
	case blocks.Sources:
		if out, ok := renderSources(b.Content, r.width, r.styles); ok {
			return out
		}
		return r.renderCode(b.Content, "yaml")
	default:
		return r.renderMarkdown(b)
	}
}

func (r *Renderer) renderMarkdown(b blocks.Block) string {
	source := markdownSource(b)
	out, err := r.markdown.Render(source)
	if err != nil {
		return source
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) renderCode(source, language string) string {
	highlighted := r.code.highlight(source, language)
	var b strings.Builder
	for i, line := range strings.Split(highlighted, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  " + line)
	}
	return b.String()
}

// markdownSource reconstructs canonical markdown for the block kinds that
// glamour renders.
func markdownSource(b blocks.Block) string {
	switch b.Kind {
	case blocks.Heading:
		return strings.Repeat("#", b.Level) + " " + b.Content
	case blocks.Bullet:
		return strings.Repeat("  ", b.Level) + "- " + b.Content
	case blocks.NumberedItem:
		return fmt.Sprintf("%d. %s", b.Level, b.Content)
	case blocks.HorizontalRule:
		return "---"
	default:
		return b.Content
	}
}
