package html

import (
	"errors"
	"strings"
	"testing"
)

// outline renders a subtree compactly: tag(children...) for elements and
// "text" for text.
func outline(n *Node) string {
	if n.Type == TextNode {
		return `"` + n.Text + `"`
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = outline(c)
	}
	if len(parts) == 0 {
		return n.TagName
	}
	return n.TagName + "(" + strings.Join(parts, " ") + ")"
}

func TestParser_Structure(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"single element", `<div></div>`, `document(div)`},
		{"siblings", `<div></div><p></p>`, `document(div p)`},
		{"nested text", `<div><p>Hello</p></div>`, `document(div(p("Hello")))`},
		{"deep", `<div><section><article><p>Deep</p></article></section></div>`,
			`document(div(section(article(p("Deep")))))`},
		{"sibling paragraphs", `<div><p>First</p><p>Second</p></div>`,
			`document(div(p("First") p("Second")))`},
		{"void elements", `<div><img src="a.png"><mesh box="0 0 0 1 1 1"/><p>after</p></div>`,
			`document(div(img mesh p("after")))`},
		{"stray end tag", `<div></span><p>x</p></div>`, `document(div(p("x")))`},
		{"unclosed at EOF", `<div><p>open`, `document(div(p("open")))`},
		{"closing outer closes inner", `<div><p>a</div><span>b</span>`, `document(div(p("a")) span("b"))`},
		{"comments and doctype", `<!DOCTYPE ht3d><!-- note --><div><?pi x?></div>`, `document(div)`},
		{"blank text dropped", "<div>\n  <p> a  b </p>\n</div>", `document(div(p("a b")))`},
		{"entities", `<p>a &amp; b</p>`, `document(p("a & b"))`},
		{"upper case tags", `<DIV><P>x</P></DIV>`, `document(div(p("x")))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.markup)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := outline(doc.Root); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParser_Attributes(t *testing.T) {
	doc, err := Parse(`<div style="color: red" data-x='1 &lt; 2' hidden></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	want := []Attribute{{"style", "color: red"}, {"data-x", "1 < 2"}, {"hidden", ""}}
	if len(div.Attributes) != len(want) {
		t.Fatalf("expected %d attributes, got %+v", len(want), div.Attributes)
	}
	for i, a := range want {
		if div.Attributes[i] != a {
			t.Errorf("attribute %d: expected %+v, got %+v", i, a, div.Attributes[i])
		}
	}
}

func TestParser_ParentReferences(t *testing.T) {
	doc, err := Parse(`<div><p>Text</p></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	p := div.Children[0]
	if p.Parent != div || div.Parent != doc.Root || p.Children[0].Parent != p {
		t.Error("parent links do not match the tree")
	}
}

func TestParser_RawBlocks(t *testing.T) {
	doc, err := Parse(`
		<style>div { color: red; }</style>
		<body>
		<script>if (a < b) { log("</p>") }</script>
		<p>hi</p>
		<STYLE>p { color: blue; }</Style>
		</body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSheets := []string{"div { color: red; }", "p { color: blue; }"}
	if len(doc.Stylesheets) != len(wantSheets) {
		t.Fatalf("expected %d stylesheets, got %q", len(wantSheets), doc.Stylesheets)
	}
	for i, s := range wantSheets {
		if doc.Stylesheets[i] != s {
			t.Errorf("stylesheet %d: expected %q, got %q", i, s, doc.Stylesheets[i])
		}
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != `if (a < b) { log("</p>") }` {
		t.Errorf("unexpected scripts %q", doc.Scripts)
	}
	if got := outline(doc.Body()); got != `body(p("hi"))` {
		t.Errorf("raw blocks leaked into the tree: %s", got)
	}
}

func TestParser_UnterminatedRawBlock(t *testing.T) {
	doc, err := Parse(`<script>let x = 1;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != "let x = 1;" {
		t.Errorf("expected the rest of the input as script, got %q", doc.Scripts)
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name      string
		markup    string
		line, col int
	}{
		{"unterminated tag", "<div>\n  <p class=x", 2, 3},
		{"unterminated value", `<div id="main>`, 1, 9},
		{"missing tag name", "<div>\n< p>", 2, 2},
		{"bad attribute", `<div "x">`, 1, 6},
		{"unterminated end tag", "<div></div", 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.markup)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if se.Line != tt.line || se.Col != tt.col {
				t.Errorf("expected %d:%d, got %d:%d (%s)", tt.line, tt.col, se.Line, se.Col, se.Msg)
			}
		})
	}
}
