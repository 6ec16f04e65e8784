package blocks

import "strings"

// ChangeKind classifies what happened to a block index between two parses.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Changed
	New
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case New:
		return "new"
	case Removed:
		return "removed"
	}
	return "change(?)"
}

// Change is the classification for one block index.
type Change struct {
	Index int
	Kind  ChangeKind
}

// Diff compares two parses positionally and classifies every index in
// [0, max(len(prev), len(next))).
//
// When newText is oldText plus a suffix (the dominant streaming case), only
// the last previously-known block can have absorbed the appended text, so
// everything before it is reported Unchanged without comparison. Any other
// edit falls back to a full positional scan. The diff never aligns content
// across indices: a mid-document insertion shows up as a run of Changed
// trailing blocks, which is the accepted cost of an O(n) comparison.
func Diff(prevText string, prev []Block, newText string, next []Block) []Change {
	isAppend := len(newText) > len(prevText) && strings.HasPrefix(newText, prevText)

	diffStart := 0
	if isAppend && len(prev) > 0 {
		diffStart = len(prev) - 1
	}

	total := len(prev)
	if len(next) > total {
		total = len(next)
	}

	changes := make([]Change, 0, total)
	for i := 0; i < total; i++ {
		switch {
		case i < diffStart && i < len(next):
			changes = append(changes, Change{i, Unchanged})
		case i < len(prev) && i < len(next):
			if prev[i] == next[i] {
				changes = append(changes, Change{i, Unchanged})
			} else {
				changes = append(changes, Change{i, Changed})
			}
		case i < len(next):
			changes = append(changes, Change{i, New})
		default:
			changes = append(changes, Change{i, Removed})
		}
	}
	return changes
}

// Session tracks the previous (text, blocks) pair so successive snapshots
// of a growing stream can be parsed and diffed without the caller handling
// the pairing discipline itself. The zero value is ready to use.
type Session struct {
	text   string
	blocks []Block
}

// Update parses text, diffs it against the previous snapshot, and retains
// the new pair. The returned slice is a fresh list and is never mutated by
// later calls.
func (s *Session) Update(text string) ([]Block, []Change) {
	parsed := Parse(text)
	changes := Diff(s.text, s.blocks, text, parsed)
	s.text = text
	s.blocks = parsed
	return parsed, changes
}

// Blocks returns the most recent parse.
func (s *Session) Blocks() []Block {
	return s.blocks
}
