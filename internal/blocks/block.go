package blocks

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a parsed block.
type Kind int

const (
	Paragraph Kind = iota
	Heading
	Bullet
	NumberedItem
	HorizontalRule
	CodeBlock
	Table
	Chart
	Mermaid
	Confidence
	Comparison
	Card
	Sources
)

var kindNames = [...]string{
	Paragraph:      "paragraph",
	Heading:        "heading",
	Bullet:         "bullet",
	NumberedItem:   "numbered",
	HorizontalRule: "rule",
	CodeBlock:      "code",
	Table:          "table",
	Chart:          "chart",
	Mermaid:        "mermaid",
	Confidence:     "confidence",
	Comparison:     "comparison",
	Card:           "card",
	Sources:        "sources",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// specialKinds maps lowercased fence language tags to the kinds that
// dispatch to a dedicated widget instead of plain code rendering.
var specialKinds = map[string]Kind{
	"chart":      Chart,
	"mermaid":    Mermaid,
	"confidence": Confidence,
	"comparison": Comparison,
	"card":       Card,
	"sources":    Sources,
}

// KindForLanguage resolves the block kind for a fenced code block from its
// language tag. The match is case-insensitive; unknown tags (including the
// empty tag) are plain code blocks.
func KindForLanguage(tag string) Kind {
	if k, ok := specialKinds[strings.ToLower(tag)]; ok {
		return k
	}
	return CodeBlock
}

// Block is one classified unit of parsed content. It is a plain value:
// two blocks are equal iff all four fields are equal, and the zero value
// (an empty paragraph) compares like any other.
//
// Level is overloaded by kind: heading level (clamped to 3), bullet indent
// depth, or the ordinal of a numbered item. It is 0 for kinds where it
// carries no meaning. Language is the fence tag as typed, empty elsewhere.
type Block struct {
	Kind     Kind
	Content  string
	Level    int
	Language string
}

// Key returns a string that agrees with value equality, for use as a
// render-cache key.
func (b Block) Key() string {
	return fmt.Sprintf("%d\x00%d\x00%s\x00%s", b.Kind, b.Level, b.Language, b.Content)
}
