package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"livre3d/pkg/css"
	"livre3d/pkg/html"
	"livre3d/pkg/layout"
	"livre3d/pkg/text"
	"livre3d/pkg/viewport"
)

type estimator struct{}

func (estimator) Measure(s string, f text.Face) (float64, float64) {
	return text.Estimate(s, f.Size)
}

type recordingRequester struct {
	requests []layout.NodeID
}

func (r *recordingRequester) Request(id layout.NodeID) { r.requests = append(r.requests, id) }

type fakeResizer struct {
	width, height float64
}

func (r *fakeResizer) Resize(w, h float64) { r.width, r.height = w, h }

// buildTree lays markup out in a 200x100 window at two pixels per world
// unit.
func buildTree(t *testing.T, markup string) (*layout.Tree, *html.Document) {
	t.Helper()
	vp := viewport.New(100, 60, 0.5)
	vp.Resize(200, 100)
	tree := layout.NewTree(css.NewCascade(), vp, layout.WithTextMeasurer(estimator{}))

	doc, err := html.Parse(markup)
	require.NoError(t, err)
	_, err = tree.Build(doc)
	require.NoError(t, err)
	return tree, doc
}

func newEngine(t *testing.T, markup string, opts ...Option) (*Engine, *layout.Tree) {
	t.Helper()
	tree, _ := buildTree(t, markup)
	return New(tree, opts...), tree
}

func run(t *testing.T, e *Engine, src string) {
	t.Helper()
	if err := e.Run(src); err != nil {
		t.Fatal(err)
	}
}

// byID finds an element by its id attribute.
func byID(t *testing.T, tree *layout.Tree, id string) *layout.Node {
	t.Helper()
	var found *layout.Node
	tree.Walk(tree.Root(), func(n *layout.Node) bool {
		if v, ok := n.Attribute("id"); ok && v == id && found == nil {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no element with id %q", id)
	return found
}

func TestGetElementById(t *testing.T) {
	e, _ := newEngine(t, `<div id="foo">hello</div>`)
	run(t, e, `
		var el = document.getElementById("foo");
		if (el === null) throw new Error("element not found");
		if (el.id !== "foo") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "DIV") throw new Error("wrong tagName: " + el.tagName);
		if (el !== document.getElementById("foo")) throw new Error("proxy identity lost");
	`)
}

func TestGetElementByIdNotFound(t *testing.T) {
	e, _ := newEngine(t, `<div>hello</div>`)
	run(t, e, `
		var el = document.getElementById("nonexistent");
		if (el !== null) throw new Error("expected null, got: " + el);
	`)
}

func TestGetElementsByTagName(t *testing.T) {
	e, _ := newEngine(t, `<p>one</p><p>two</p><div>three</div>`)
	run(t, e, `
		var ps = document.getElementsByTagName("p");
		if (ps.length !== 2) throw new Error("expected 2 p tags, got: " + ps.length);
	`)
}

func TestGetElementsByClassName(t *testing.T) {
	e, _ := newEngine(t, `<div class="a b">one</div><div class="a">two</div><div class="c">three</div>`)
	run(t, e, `
		var els = document.getElementsByClassName("a");
		if (els.length !== 2) throw new Error("expected 2 elements with class a, got: " + els.length);
	`)
}

func TestDocumentBody(t *testing.T) {
	e, tree := newEngine(t, `<body><p>x</p></body>`)
	run(t, e, `
		if (document.body.tagName !== "BODY") throw new Error("body is " + document.body.tagName);
		if (document.body !== document.documentElement) throw new Error("body is the root");
		if (document.body.parentNode !== null) throw new Error("root has no parent");
	`)
	assert.Equal(t, "body", tree.Node(tree.Root()).Tag())
}

func TestTextContent(t *testing.T) {
	e, tree := newEngine(t, `<p id="target">original words</p>`)
	run(t, e, `
		var el = document.getElementById("target");
		if (el.textContent !== "original words") throw new Error("textContent = " + el.textContent);
		el.textContent = "changed text here";
	`)

	target := byID(t, tree, "target")
	assert.Len(t, target.Children(), 3, "one word container per word")
	run(t, e, `
		var got = document.getElementById("target").textContent;
		if (got !== "changed text here") throw new Error("textContent = " + got);
	`)
}

func TestSetStyle(t *testing.T) {
	e, tree := newEngine(t, `<div id="target" style="color: red"></div>`)
	run(t, e, `
		var el = document.getElementById("target");
		if (el.style.color !== "red") throw new Error("color = " + el.style.color);
		el.style.backgroundColor = "blue";
		el.style.color = "green";
	`)

	target := byID(t, tree, "target")
	style, _ := target.Attribute("style")
	assert.Equal(t, "color: green; background-color: blue", style)
	assert.NotEqual(t, layout.NoNode, target.Background(), "background-color creates a background")
}

func TestStyleDeclarationMethods(t *testing.T) {
	e, tree := newEngine(t, `<div id="target" style="width: 10; color: red"></div>`)
	run(t, e, `
		var s = document.getElementById("target").style;
		if (s.length !== 2) throw new Error("length = " + s.length);
		if (s.getPropertyValue("width") !== "10") throw new Error("width = " + s.getPropertyValue("width"));
		s.setProperty("margin-left", "4");
		if (s.removeProperty("color") !== "red") throw new Error("removeProperty returns the old value");
		s.width = "";
	`)
	style, _ := byID(t, tree, "target").Attribute("style")
	assert.Equal(t, "margin-left: 4", style)

	run(t, e, `document.getElementById("target").style.cssText = "height: 5;;width:6";`)
	style, _ = byID(t, tree, "target").Attribute("style")
	assert.Equal(t, "height: 5; width: 6", style)
}

func TestSetAndGetAttribute(t *testing.T) {
	e, tree := newEngine(t, `<div id="target" data-x="1"></div>`)
	run(t, e, `
		var el = document.getElementById("target");
		if (el.getAttribute("data-x") !== "1") throw new Error("data-x = " + el.getAttribute("data-x"));
		if (el.getAttribute("missing") !== null) throw new Error("missing attribute is not null");
		el.setAttribute("data-y", "2");
		el.className = "big";
	`)

	target := byID(t, tree, "target")
	y, _ := target.Attribute("data-y")
	cls, _ := target.Attribute("class")
	assert.Equal(t, "2", y)
	assert.Equal(t, "big", cls)
}

func TestMutationRequestsLayout(t *testing.T) {
	e, tree := newEngine(t, `<div id="a"></div>`)
	req := &recordingRequester{}
	tree.SetRequester(req)

	run(t, e, `document.getElementById("a").setAttribute("class", "x");`)
	assert.NotEmpty(t, req.requests)
}

func TestChildrenSkipWords(t *testing.T) {
	e, _ := newEngine(t, `<div id="p"><span>a</span> loose text <span>b</span></div>`)
	run(t, e, `
		var p = document.getElementById("p");
		if (p.children.length !== 2) throw new Error("children = " + p.children.length);
		if (p.childNodes.length !== 4) throw new Error("childNodes = " + p.childNodes.length);
	`)
}

func TestScriptError(t *testing.T) {
	e, _ := newEngine(t, `<div></div>`)
	err := e.Run(`throw new Error("boom")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecuteDocumentScripts(t *testing.T) {
	tree, doc := buildTree(t, `<div id="a"></div><script>document.getElementById("a").id = "b";</script>`)
	e := New(tree)

	require.Len(t, doc.Scripts, 1)
	require.NoError(t, e.Execute(doc))
	byID(t, tree, "b")

	doc.Scripts = []string{`var ok = 1;`, `undefinedFunction()`}
	err := e.Execute(doc)
	assert.ErrorContains(t, err, "script 1")
}

func TestConsoleLogsToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, _ := newEngine(t, `<div></div>`, WithLogger(zap.New(core)))
	run(t, e, `console.log("hello", 42); console.warn("careful"); console.error("bad");`)

	require.Equal(t, 1, logs.FilterMessage("hello 42").Len())
	entry := logs.FilterMessage("hello 42").All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "js.console", entry.LoggerName)
	assert.Equal(t, zapcore.WarnLevel, logs.FilterMessage("careful").All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.FilterMessage("bad").All()[0].Level)
}

func TestInnerHTMLQueuesResources(t *testing.T) {
	e, tree := newEngine(t, `<div id="host">old words</div>`)
	run(t, e, `document.getElementById("host").innerHTML = '<img src="pic.png"><p>new</p>';`)

	pending := e.TakePending()
	require.Len(t, pending, 1)
	assert.Equal(t, "pic.png", pending[0].Src)
	assert.Equal(t, layout.PendingImage, pending[0].Kind)
	assert.Empty(t, e.TakePending())

	host := byID(t, tree, "host")
	require.Len(t, host.Children(), 2)
	assert.Equal(t, "img", tree.Node(host.Children()[0]).Tag())
	assert.Equal(t, "p", tree.Node(host.Children()[1]).Tag())
}

func TestWindow(t *testing.T) {
	r := &fakeResizer{}
	e, _ := newEngine(t, `<div></div>`, WithResizer(r))
	run(t, e, `
		if (window.innerWidth !== 200) throw new Error("innerWidth = " + window.innerWidth);
		if (window.innerHeight !== 100) throw new Error("innerHeight = " + window.innerHeight);
		window.resize(300, 150);
	`)
	assert.Equal(t, &fakeResizer{width: 300, height: 150}, r)

	assert.Error(t, e.Run(`window.resize(0, 10)`))
}

func TestWindowResizeUnavailable(t *testing.T) {
	e, _ := newEngine(t, `<div></div>`)
	assert.Error(t, e.Run(`window.resize(10, 10)`))
}

func TestGetBoundingBox(t *testing.T) {
	e, tree := newEngine(t, `<div id="a" style="width: 40; height: 20; align-self: start"></div>`)
	require.NoError(t, tree.Layout(tree.Root()))
	run(t, e, `
		var b = document.getElementById("a").getBoundingBox();
		if (b.width !== 20 || b.height !== 10) throw new Error("size = " + b.width + "x" + b.height);
	`)
}

func TestCamelToKebab(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"color", "color"},
		{"backgroundColor", "background-color"},
		{"marginLeft", "margin-left"},
		{"alignSelf", "align-self"},
	}
	for _, tt := range tests {
		if got := camelToKebab(tt.input); got != tt.want {
			t.Errorf("camelToKebab(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDeclarations(t *testing.T) {
	decls := parseDeclarations("color: red; Margin-Left : 4px;; bogus; color: blue")
	assert.Equal(t, []declaration{{"color", "blue"}, {"margin-left", "4px"}}, decls)
	assert.Equal(t, "color: blue; margin-left: 4px", formatDeclarations(decls))
	assert.Equal(t, "", formatDeclarations(nil))
}
