// Package blocks converts streamed markdown text into an ordered list of
// typed content blocks and diffs successive parses so a renderer can update
// only what changed. Parsing is a pure function over the whole accumulated
// text: it is cheap enough to re-run on every tick of a growing stream and
// always yields the same blocks for the same input.
package blocks

import "strings"

// assembler state: one in-progress block at a time.
type parseState int

const (
	stateIdle parseState = iota
	stateInParagraph
	stateInCodeBlock
	stateInTable
)

type parser struct {
	state parseState
	out   []Block
	para  []string // accumulated paragraph lines, trimmed
	code  []string // accumulated code lines, verbatim
	lang  string   // language tag of the open fence, as typed
	rows  []string // accumulated table rows, trimmed
}

// Parse converts text into an ordered list of blocks. It is total: any
// input produces some valid list (worst case a single paragraph), and
// identical input always produces element-wise equal lists. CRLF and lone
// CR line endings parse identically to LF. Empty or whitespace-only input
// yields an empty list.
func Parse(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	p := &parser{}
	for _, raw := range strings.Split(text, "\n") {
		p.feed(raw)
	}
	p.finish()
	return p.out
}

// feed advances the state machine by one physical line.
func (p *parser) feed(raw string) {
	switch p.state {
	case stateInCodeBlock:
		// Everything is verbatim content until a line whose trimmed text
		// starts with a closing fence, headings and blanks included.
		if strings.HasPrefix(strings.TrimSpace(raw), "```") {
			p.closeCode()
			return
		}
		p.code = append(p.code, raw)
		return

	case stateInTable:
		trimmed := strings.TrimSpace(raw)
		if tableContinuation(trimmed) {
			p.rows = append(p.rows, trimmed)
			return
		}
		p.closeTable()
		// Reprocess the line from idle.

	case stateInParagraph:
		ln := classifyLine(raw)
		if ln.kind == linePlain {
			p.para = append(p.para, ln.text)
			return
		}
		// Anything else closes the paragraph first; a structural line is
		// then reprocessed from idle so a heading glued directly under a
		// paragraph still starts its own block.
		p.closePara()
		if ln.kind == lineBlank {
			return
		}
	}

	p.startBlock(raw)
}

// startBlock handles a line from the idle state.
func (p *parser) startBlock(raw string) {
	ln := classifyLine(raw)
	switch ln.kind {
	case lineBlank:
		// Separator between blocks.
	case lineRule:
		p.out = append(p.out, Block{Kind: HorizontalRule})
	case lineBullet:
		p.out = append(p.out, Block{Kind: Bullet, Content: ln.text, Level: ln.level})
	case lineNumbered:
		p.out = append(p.out, Block{Kind: NumberedItem, Content: ln.text, Level: ln.level})
	case lineHeading:
		p.out = append(p.out, Block{Kind: Heading, Content: ln.text, Level: ln.level})
	case lineFence:
		p.state = stateInCodeBlock
		p.lang = ln.lang
		p.code = nil
	case lineTableRow:
		p.state = stateInTable
		p.rows = []string{ln.text}
	default:
		p.state = stateInParagraph
		p.para = []string{ln.text}
	}
}

// tableContinuation reports whether a trimmed line keeps an open table
// open. The test favors staying inside the table while a row may still be
// typing: any "|"-prefixed line continues, as does a partially received
// separator row ("--", ":--", "-|-"). A rule, a blank line, or any other
// construct closes the table.
func tableContinuation(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if trimmed[0] == '|' {
		return true
	}
	if isRuleLine(trimmed) {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '-', ':', '|', ' ':
		default:
			return false
		}
	}
	return true
}

func (p *parser) closePara() {
	p.out = append(p.out, Block{Kind: Paragraph, Content: strings.Join(p.para, "\n")})
	p.para = nil
	p.state = stateIdle
}

func (p *parser) closeCode() {
	p.out = append(p.out, Block{
		Kind:     KindForLanguage(p.lang),
		Content:  strings.Join(p.code, "\n"),
		Language: p.lang,
	})
	p.code = nil
	p.lang = ""
	p.state = stateIdle
}

func (p *parser) closeTable() {
	p.out = append(p.out, Block{Kind: Table, Content: strings.Join(p.rows, "\n")})
	p.rows = nil
	p.state = stateIdle
}

// finish flushes whatever block is still open at end of input, including an
// unterminated fence mid-stream.
func (p *parser) finish() {
	switch p.state {
	case stateInParagraph:
		p.closePara()
	case stateInCodeBlock:
		p.closeCode()
	case stateInTable:
		p.closeTable()
	}
}
