package blocks

import "strings"

// lineKind is the signal the line classifier hands to the assembler.
type lineKind int

const (
	linePlain lineKind = iota
	lineBlank
	lineRule
	lineBullet
	lineNumbered
	lineHeading
	lineTableRow
	lineFence
)

// line is one classified physical line.
type line struct {
	kind  lineKind
	text  string // payload: heading/bullet/item text, or trimmed plain text
	level int    // heading level, bullet depth, or numbered ordinal
	lang  string // fence language tag
}

// classifyLine maps a single physical line to its line kind. Checks run in
// priority order; notably the rule check precedes bullet detection because
// "- - -" is lexically a bullet whose content is "- -".
func classifyLine(raw string) line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return line{kind: lineBlank}
	}

	if isRuleLine(trimmed) {
		return line{kind: lineRule}
	}

	indent, rest := splitIndent(raw)

	if text, ok := bulletText(rest); ok {
		return line{kind: lineBullet, text: text, level: indent / 2}
	}

	if text, ordinal, ok := numberedText(rest); ok {
		return line{kind: lineNumbered, text: text, level: ordinal}
	}

	if text, level, ok := headingText(trimmed); ok {
		return line{kind: lineHeading, text: text, level: level}
	}

	if strings.HasPrefix(trimmed, "|") {
		return line{kind: lineTableRow, text: trimmed}
	}

	if strings.HasPrefix(trimmed, "```") {
		return line{kind: lineFence, lang: strings.TrimSpace(trimmed[3:])}
	}

	return line{kind: linePlain, text: trimmed}
}

// isRuleLine reports whether the trimmed line is a horizontal rule: three or
// more of the same character from -, * or _, optionally separated by single
// spaces ("---", "* * *", "- - -").
func isRuleLine(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	count := 0
	prevSpace := false
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case c:
			count++
			prevSpace = false
		case ' ':
			if prevSpace {
				return false
			}
			prevSpace = true
		default:
			return false
		}
	}
	return count >= 3 && !prevSpace
}

// splitIndent strips leading whitespace, returning the indent width in
// columns (tabs expand to 4) and the remainder of the line.
func splitIndent(raw string) (int, string) {
	cols := 0
	i := 0
	for i < len(raw) {
		if raw[i] == ' ' {
			cols++
		} else if raw[i] == '\t' {
			cols += 4
		} else {
			break
		}
		i++
	}
	return cols, raw[i:]
}

// bulletText matches "- text" or "* text": a single marker, exactly one
// space, then non-empty text. A bare marker is not a bullet.
func bulletText(rest string) (string, bool) {
	if len(rest) < 3 {
		return "", false
	}
	if rest[0] != '-' && rest[0] != '*' {
		return "", false
	}
	if rest[1] != ' ' || rest[2] == ' ' {
		return "", false
	}
	text := strings.TrimSpace(rest[2:])
	if text == "" {
		return "", false
	}
	return text, true
}

// numberedText matches "N. text" where N is 1-3 ASCII digits (0-999).
// Longer digit runs or a missing space/text disqualify the line.
func numberedText(rest string) (string, int, bool) {
	digits := 0
	ordinal := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		ordinal = ordinal*10 + int(rest[digits]-'0')
		digits++
	}
	if digits == 0 || digits > 3 {
		return "", 0, false
	}
	if digits+1 >= len(rest) || rest[digits] != '.' || rest[digits+1] != ' ' {
		return "", 0, false
	}
	if digits+2 < len(rest) && rest[digits+2] == ' ' {
		return "", 0, false
	}
	text := strings.TrimSpace(rest[digits+2:])
	if text == "" {
		return "", 0, false
	}
	return text, ordinal, true
}

// headingText matches 1-6 leading # characters followed by exactly one
// space and non-empty text. The stored level clamps 4-6 down to 3. A bare
// hash run ("#", "## ") is not a heading and falls through to paragraph
// handling.
func headingText(trimmed string) (string, int, bool) {
	hashes := 0
	for hashes < len(trimmed) && trimmed[hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > 6 {
		return "", 0, false
	}
	if hashes >= len(trimmed) || trimmed[hashes] != ' ' {
		return "", 0, false
	}
	text := strings.TrimSpace(trimmed[hashes+1:])
	if text == "" {
		return "", 0, false
	}
	level := hashes
	if level > 3 {
		level = 3
	}
	return text, level, true
}
