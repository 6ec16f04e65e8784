package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter applies syntax highlighting to fenced code bodies using the
// block's language tag. It is owned by the renderer; lexer lookups are
// cached per language rather than held in package state.
type highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
	lexers    map[string]chroma.Lexer
}

func newHighlighter(styleName string) *highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &highlighter{
		style:     style,
		formatter: formatter,
		lexers:    make(map[string]chroma.Lexer),
	}
}

func (h *highlighter) lexerFor(language string) chroma.Lexer {
	if lexer, ok := h.lexers[language]; ok {
		return lexer
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	h.lexers[language] = lexer
	return lexer
}

// highlight returns source with ANSI color applied. Unknown languages and
// tokenizer errors fall back to the plain source.
func (h *highlighter) highlight(source, language string) string {
	if h == nil || source == "" {
		return source
	}

	iterator, err := h.lexerFor(language).Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
