package blocks

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// parseOne parses input and requires exactly one block.
func parseOne(t *testing.T, input string) Block {
	t.Helper()
	got := Parse(input)
	if len(got) != 1 {
		t.Fatalf("Parse(%q) = %d blocks %v, want 1", input, len(got), got)
	}
	return got[0]
}

func blocksEqual(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseDeterminism(t *testing.T) {
	docs := []string{
		"",
		"# Title\n\nBody text.\n",
		"- one\n- two\n\n```go\nx := 1\n```\n",
		"| A | B |\n| --- | --- |\n| 1 | 2 |",
		"broken ``` fence\n#nohead\n999. item\n",
	}
	for _, doc := range docs {
		first := Parse(doc)
		second := Parse(doc)
		if !blocksEqual(first, second) {
			t.Errorf("Parse(%q) not deterministic:\n%v\n%v", doc, first, second)
		}
	}
}

func TestParseCRLFInvariance(t *testing.T) {
	doc := "# Title\n\nPara one.\nStill para.\n\n```js\nlet a;\n```\n\n| A |\n| 1 |\n"
	crlf := strings.ReplaceAll(doc, "\n", "\r\n")
	cr := strings.ReplaceAll(doc, "\n", "\r")

	want := Parse(doc)
	if got := Parse(crlf); !blocksEqual(got, want) {
		t.Errorf("CRLF parse differs:\n%v\n%v", got, want)
	}
	if got := Parse(cr); !blocksEqual(got, want) {
		t.Errorf("CR parse differs:\n%v\n%v", got, want)
	}
}

func TestParseHeadings(t *testing.T) {
	tests := []struct {
		input   string
		level   int
		content string
	}{
		{"# H1", 1, "H1"},
		{"## H2", 2, "H2"},
		{"### H3", 3, "H3"},
		{"#### H4", 3, "H4"},   // levels 4-6 clamp to 3
		{"###### H6", 3, "H6"},
		{"  ## indented", 2, "indented"},
	}
	for _, tt := range tests {
		b := parseOne(t, tt.input)
		if b.Kind != Heading || b.Level != tt.level || b.Content != tt.content {
			t.Errorf("Parse(%q) = %+v, want Heading level=%d content=%q",
				tt.input, b, tt.level, tt.content)
		}
	}
}

func TestParseNonHeadingsDegradeToParagraph(t *testing.T) {
	tests := []struct {
		input   string
		content string
	}{
		{"#hashtag", "#hashtag"},
		{"# ", "#"},
		{"##", "##"},
		{"####### seven", "####### seven"},
	}
	for _, tt := range tests {
		b := parseOne(t, tt.input)
		if b.Kind != Paragraph || b.Content != tt.content {
			t.Errorf("Parse(%q) = %+v, want Paragraph content=%q", tt.input, b, tt.content)
		}
	}
}

func TestParseHorizontalRules(t *testing.T) {
	for _, input := range []string{"---", "----", "***", "___", "- - -", "* * *", "_ _ _", "  ---  "} {
		b := parseOne(t, input)
		if b.Kind != HorizontalRule {
			t.Errorf("Parse(%q) = %+v, want HorizontalRule", input, b)
		}
	}
	// Too short or mixed: not a rule.
	for _, input := range []string{"--", "- -", "**", "-*-"} {
		b := parseOne(t, input)
		if b.Kind == HorizontalRule {
			t.Errorf("Parse(%q) = HorizontalRule, want fall-through", input)
		}
	}
}

func TestParseBullets(t *testing.T) {
	tests := []struct {
		input   string
		level   int
		content string
	}{
		{"- item", 0, "item"},
		{"* item", 0, "item"},
		{"  - nested", 1, "nested"},
		{"    - deeper", 2, "deeper"},
		{"\t- tabbed", 2, "tabbed"}, // tab expands to 4 columns
	}
	for _, tt := range tests {
		b := parseOne(t, tt.input)
		if b.Kind != Bullet || b.Level != tt.level || b.Content != tt.content {
			t.Errorf("Parse(%q) = %+v, want Bullet level=%d content=%q",
				tt.input, b, tt.level, tt.content)
		}
	}

	// A bare marker is not a bullet.
	if b := parseOne(t, "- "); b.Kind != Paragraph || b.Content != "-" {
		t.Errorf("Parse(%q) = %+v, want Paragraph %q", "- ", b, "-")
	}
}

func TestParseNumberedItems(t *testing.T) {
	tests := []struct {
		input   string
		ordinal int
		content string
	}{
		{"1. first", 1, "first"},
		{"0. zeroth", 0, "zeroth"},
		{"42. answer", 42, "answer"},
		{"999. max", 999, "max"},
	}
	for _, tt := range tests {
		b := parseOne(t, tt.input)
		if b.Kind != NumberedItem || b.Level != tt.ordinal || b.Content != tt.content {
			t.Errorf("Parse(%q) = %+v, want NumberedItem ordinal=%d content=%q",
				tt.input, b, tt.ordinal, tt.content)
		}
	}

	// 4+ digit prefixes and bare markers disqualify.
	for _, input := range []string{"1000. over", "1."} {
		b := parseOne(t, input)
		if b.Kind == NumberedItem {
			t.Errorf("Parse(%q) = NumberedItem, want fall-through", input)
		}
	}
}

func TestParseCodeBlocks(t *testing.T) {
	b := parseOne(t, "```csharp\nvar x=1;\n```")
	if b.Kind != CodeBlock || b.Language != "csharp" {
		t.Fatalf("got %+v, want CodeBlock language=csharp", b)
	}
	if !strings.Contains(b.Content, "var x=1;") {
		t.Errorf("content %q missing code line", b.Content)
	}
}

func TestParseCodeBlockSwallowsStructure(t *testing.T) {
	input := "```\n# not a heading\n- not a bullet\n\n| not | a table |\n```"
	b := parseOne(t, input)
	if b.Kind != CodeBlock {
		t.Fatalf("got %+v, want CodeBlock", b)
	}
	want := "# not a heading\n- not a bullet\n\n| not | a table |"
	if b.Content != want {
		t.Errorf("content = %q, want %q", b.Content, want)
	}
}

func TestParseUnterminatedFence(t *testing.T) {
	b := parseOne(t, "```python\nprint('hi')")
	if b.Kind != CodeBlock || b.Language != "python" || b.Content != "print('hi')" {
		t.Errorf("unterminated fence: got %+v", b)
	}
}

func TestParseSpecialFenceTags(t *testing.T) {
	tests := []struct {
		tag  string
		kind Kind
	}{
		{"chart", Chart},
		{"Chart", Chart},
		{"MERMAID", Mermaid},
		{"confidence", Confidence},
		{"Comparison", Comparison},
		{"card", Card},
		{"sources", Sources},
		{"go", CodeBlock},
		{"", CodeBlock},
	}
	for _, tt := range tests {
		b := parseOne(t, "```"+tt.tag+"\nbody\n```")
		if b.Kind != tt.kind {
			t.Errorf("fence tag %q: kind = %v, want %v", tt.tag, b.Kind, tt.kind)
		}
		if b.Language != tt.tag {
			t.Errorf("fence tag %q: language = %q, want tag preserved as typed", tt.tag, b.Language)
		}
	}
}

func TestParseParagraphs(t *testing.T) {
	got := Parse("A\n\nB")
	if len(got) != 2 {
		t.Fatalf("got %d blocks %v, want 2", len(got), got)
	}
	if got[0] != (Block{Kind: Paragraph, Content: "A"}) || got[1] != (Block{Kind: Paragraph, Content: "B"}) {
		t.Errorf("got %v, want paragraphs A and B", got)
	}
}

func TestParseMultiLineParagraph(t *testing.T) {
	b := parseOne(t, "line one\nline two\nline three")
	if b.Kind != Paragraph {
		t.Fatalf("got %+v, want Paragraph", b)
	}
	if b.Content != "line one\nline two\nline three" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestParseHeadingGluedToParagraph(t *testing.T) {
	got := Parse("some text\n## Next")
	if len(got) != 2 {
		t.Fatalf("got %v, want paragraph then heading", got)
	}
	if got[0].Kind != Paragraph || got[1].Kind != Heading || got[1].Level != 2 {
		t.Errorf("got %v", got)
	}
}

func TestParseTable(t *testing.T) {
	b := parseOne(t, "| A | B |\n| --- | --- |\n| 1 | 2 |")
	if b.Kind != Table {
		t.Fatalf("got %+v, want Table", b)
	}
	if rows := strings.Split(b.Content, "\n"); len(rows) != 3 {
		t.Errorf("table content has %d rows, want 3: %q", len(rows), b.Content)
	}
}

func TestParseTablePartialRows(t *testing.T) {
	// A lone "|" and a half-typed separator keep the table open.
	tests := []string{
		"| A | B |\n|",
		"| A | B |\n| --",
		"| A | B |\n:--",
	}
	for _, input := range tests {
		b := parseOne(t, input)
		if b.Kind != Table {
			t.Errorf("Parse(%q) = %+v, want a single open Table", input, b)
		}
	}
}

func TestParseTableClosedByOtherConstructs(t *testing.T) {
	tests := []struct {
		input string
		next  Kind
	}{
		{"| A |\n# Head", Heading},
		{"| A |\n---", HorizontalRule},
		{"| A |\nplain text", Paragraph},
	}
	for _, tt := range tests {
		got := Parse(tt.input)
		if len(got) != 2 || got[0].Kind != Table || got[1].Kind != tt.next {
			t.Errorf("Parse(%q) = %v, want Table then %v", tt.input, got, tt.next)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", " \t \n  \n"} {
		if got := Parse(input); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want empty", input, got)
		}
	}
}

func TestParseStreamingGrowth(t *testing.T) {
	steps := []string{
		"## T",
		"## T\n\nPara",
		"## T\n\nPara\n\n- Item",
	}
	var prev []Block
	for i, step := range steps {
		got := Parse(step)
		if len(got) != i+1 {
			t.Fatalf("step %d: %d blocks %v, want %d", i, len(got), got, i+1)
		}
		// Every earlier block is equal across steps except the actively
		// growing last one.
		for j := 0; j < len(prev)-1; j++ {
			if got[j] != prev[j] {
				t.Errorf("step %d: block %d changed: %+v -> %+v", i, j, prev[j], got[j])
			}
		}
		prev = got
	}
}

func TestParseNoFalseDuplicatesUnderStreaming(t *testing.T) {
	doc := "# Title\n\nIntro paragraph.\n\n- alpha\n- beta\n\n```go\nfmt.Println()\n```\n\n| A |\n| 1 |\n\nClosing words.\n"
	for cut := 0; cut <= len(doc); cut++ {
		got := Parse(doc[:cut])
		seen := make(map[Block]int)
		for _, b := range got {
			if b.Content == "" {
				continue
			}
			seen[b]++
			if seen[b] > 1 {
				t.Fatalf("prefix %q: duplicate block %+v", doc[:cut], b)
			}
		}
	}
}

func TestParseMixedDocument(t *testing.T) {
	doc := `# Report

Summary paragraph.

- first point
- second point

1. step one
2. step two

---

` + "```sql\nSELECT 1;\n```" + `

| k | v |
| - | - |
`
	want := []Kind{
		Heading, Paragraph, Bullet, Bullet,
		NumberedItem, NumberedItem, HorizontalRule, CodeBlock, Table,
	}
	got := Parse(doc)
	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("block %d: kind = %v, want %v", i, got[i].Kind, k)
		}
	}
}

// Parsing every prefix of a document exercises each mid-block state at
// least once and must never panic or misorder blocks.
func TestParseEveryPrefix(t *testing.T) {
	doc := "## Head\n\ntext **bold\n\n```Chart\nx: 1\n```\n\n- - -\n| a |\n| b |\n"
	var prevCount int
	for cut := 0; cut <= len(doc); cut++ {
		got := Parse(doc[:cut])
		if len(got) < prevCount-1 {
			t.Fatalf("prefix %d: block count fell from %d to %d", cut, prevCount, len(got))
		}
		prevCount = len(got)
	}
}

func TestParseRandomChunksMatchFull(t *testing.T) {
	doc := "# T\n\npara\n\n- a\n- b\n\n```go\nx\n```\n"
	want := Parse(doc)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		var acc strings.Builder
		pos := 0
		for pos < len(doc) {
			n := rng.Intn(5) + 1
			if pos+n > len(doc) {
				n = len(doc) - pos
			}
			acc.WriteString(doc[pos : pos+n])
			pos += n
			Parse(acc.String()) // intermediate parses must not affect the final one
		}
		if got := Parse(acc.String()); !blocksEqual(got, want) {
			t.Fatalf("trial %d: got %v, want %v", trial, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Paragraph.String() != "paragraph" || Chart.String() != "chart" {
		t.Errorf("kind names wrong: %v %v", Paragraph, Chart)
	}
	if s := Kind(99).String(); !strings.Contains(s, "99") {
		t.Errorf("out-of-range kind string = %q", s)
	}
}

func BenchmarkParse(b *testing.B) {
	var doc strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&doc, "## Section %d\n\nParagraph %d with some text.\n\n- item\n- item\n\n```go\ncode()\n```\n\n", i, i)
	}
	input := doc.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(input)
	}
}

func BenchmarkParseGrowingStream(b *testing.B) {
	doc := strings.Repeat("Paragraph text here.\n\n- item one\n- item two\n\n", 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for cut := 0; cut < len(doc); cut += 40 {
			Parse(doc[:cut])
		}
	}
}
