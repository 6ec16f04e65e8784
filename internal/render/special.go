package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/streamdown/streamdown/internal/ui"
)

// Special fence payloads are parsed leniently: while streaming, a widget
// body is truncated YAML most of the time. Every renderer here returns
// ok=false on anything it cannot make sense of, and the caller falls back
// to plain code rendering, so a half-typed payload never errors.

// yamlMapping decodes content as a YAML mapping, preserving key order.
func yamlMapping(content string) ([]*yaml.Node, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, false
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, false
	}
	return doc.Content[0].Content, true
}

// renderChart draws a horizontal bar chart from a mapping of label to
// numeric value.
func renderChart(content string, width int, st *ui.Styles) (string, bool) {
	pairs, ok := yamlMapping(content)
	if !ok || len(pairs) < 2 {
		return "", false
	}

	type row struct {
		label string
		value float64
	}
	var rows []row
	maxValue := 0.0
	maxLabel := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		label := pairs[i].Value
		value, err := strconv.ParseFloat(strings.TrimSpace(pairs[i+1].Value), 64)
		if err != nil || value < 0 {
			return "", false
		}
		rows = append(rows, row{label, value})
		if value > maxValue {
			maxValue = value
		}
		if w := runewidth.StringWidth(label); w > maxLabel {
			maxLabel = w
		}
	}
	if len(rows) == 0 || maxValue == 0 {
		return "", false
	}

	barSpace := width - maxLabel - 12
	if barSpace < 8 {
		barSpace = 8
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		filled := int(float64(barSpace)*r.value/maxValue + 0.5)
		if filled < 1 {
			filled = 1
		}
		b.WriteString(st.Muted.Render(runewidth.FillRight(r.label, maxLabel)))
		b.WriteString(" ")
		b.WriteString(st.Bar.Render(strings.Repeat("█", filled)))
		b.WriteString(st.Subtitle.Render(fmt.Sprintf(" %g", r.value)))
	}
	return b.String(), true
}

// renderConfidence draws a gauge for a score in [0,1]. The payload is
// either a bare number ("0.82", "82%") or a mapping with score and an
// optional label.
func renderConfidence(content string, width int, st *ui.Styles) (string, bool) {
	var payload struct {
		Score float64 `yaml:"score"`
		Label string  `yaml:"label"`
	}
	label := ""
	score, err := parseScore(content)
	if err != nil {
		if yaml.Unmarshal([]byte(content), &payload) != nil {
			return "", false
		}
		score = payload.Score
		label = payload.Label
		if score == 0 && !strings.Contains(content, "score") {
			return "", false
		}
	}

	if score > 1 {
		score /= 100 // tolerate percentages
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	gauge := width - 12
	if gauge > 40 {
		gauge = 40
	}
	if gauge < 10 {
		gauge = 10
	}
	filled := int(float64(gauge)*score + 0.5)

	style := st.Error
	switch {
	case score >= 0.7:
		style = st.Success
	case score >= 0.4:
		style = st.Warning
	}

	out := style.Render(strings.Repeat("█", filled)) +
		st.BarEmpty.Render(strings.Repeat("░", gauge-filled)) +
		st.Bold.Render(fmt.Sprintf(" %d%%", int(score*100+0.5)))
	if label != "" {
		out = st.Subtitle.Render(label) + "\n" + out
	}
	return out, true
}

func parseScore(content string) (float64, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimSuffix(trimmed, "%")
	return strconv.ParseFloat(trimmed, 64)
}

// renderComparison lays out a mapping of option name to trait list as
// side-by-side panels.
func renderComparison(content string, width int, st *ui.Styles) (string, bool) {
	pairs, ok := yamlMapping(content)
	if !ok {
		return "", false
	}

	type column struct {
		title string
		items []string
	}
	var columns []column
	for i := 0; i+1 < len(pairs); i += 2 {
		value := pairs[i+1]
		if value.Kind != yaml.SequenceNode {
			return "", false
		}
		col := column{title: pairs[i].Value}
		for _, item := range value.Content {
			col.items = append(col.items, item.Value)
		}
		columns = append(columns, col)
	}
	if len(columns) < 2 {
		return "", false
	}

	colWidth := width/len(columns) - 4
	if colWidth < 12 {
		colWidth = 12
	}

	panels := make([]string, 0, len(columns))
	for _, col := range columns {
		var body strings.Builder
		body.WriteString(st.Title.Render(col.title))
		for _, item := range col.items {
			body.WriteString("\n")
			body.WriteString(wordwrap.String("• "+item, colWidth))
		}
		panels = append(panels, st.Panel.Width(colWidth+2).Render(body.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...), true
}

// renderCard draws a bordered key/value panel. A "title" key becomes the
// panel heading.
func renderCard(content string, width int, st *ui.Styles) (string, bool) {
	pairs, ok := yamlMapping(content)
	if !ok || len(pairs) < 2 {
		return "", false
	}

	inner := width - 6
	if inner < 16 {
		inner = 16
	}

	var body strings.Builder
	first := true
	for i := 0; i+1 < len(pairs); i += 2 {
		key, value := pairs[i].Value, pairs[i+1].Value
		if strings.EqualFold(key, "title") {
			if body.Len() > 0 {
				body.WriteString("\n")
			}
			body.WriteString(st.Title.Render(value))
			first = false
			continue
		}
		if !first {
			body.WriteString("\n")
		}
		first = false
		body.WriteString(st.Highlighted.Render(key+":") + " " + wordwrap.String(value, inner))
	}
	return st.Panel.Render(body.String()), true
}

// renderSources draws a numbered reference list. The payload is either a
// YAML sequence of {title, url} mappings or plain "title - url" lines.
func renderSources(content string, width int, st *ui.Styles) (string, bool) {
	type source struct {
		Title string `yaml:"title"`
		URL   string `yaml:"url"`
	}
	var parsed []source
	if err := yaml.Unmarshal([]byte(content), &parsed); err != nil || len(parsed) == 0 {
		parsed = parsed[:0]
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			title, url, found := strings.Cut(line, " - ")
			if !found {
				url = line
				title = ""
			}
			parsed = append(parsed, source{Title: strings.TrimSpace(title), URL: strings.TrimSpace(url)})
		}
	}
	if len(parsed) == 0 {
		return "", false
	}

	var b strings.Builder
	for i, s := range parsed {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.Muted.Render(fmt.Sprintf("%d.", i+1)))
		if s.Title != "" {
			b.WriteString(" " + s.Title)
		}
		if s.URL != "" {
			b.WriteString(" " + st.Link.Render(s.URL))
		}
	}
	return b.String(), true
}
