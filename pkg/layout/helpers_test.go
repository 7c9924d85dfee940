package layout

import (
	"testing"

	"livre3d/pkg/css"
	"livre3d/pkg/html"
	"livre3d/pkg/text"
	"livre3d/pkg/viewport"
)

// fakeViewport has no camera: WorldBox depth is given directly.
type fakeViewport struct {
	width, height float64
	w2p           float64
	depth         float64
}

func (v fakeViewport) Width() float64  { return v.width }
func (v fakeViewport) Height() float64 { return v.height }

func (v fakeViewport) WorldToPixels() (float64, error) {
	if v.w2p == 0 {
		return 0, viewport.ErrUndefined
	}
	return v.w2p, nil
}

func (v fakeViewport) DepthPixels() (float64, error) {
	w2p, err := v.WorldToPixels()
	return v.depth * w2p, err
}

func (v fakeViewport) WorldBox() (x, y, z float64, err error) {
	w2p, err := v.WorldToPixels()
	if err != nil {
		return 0, 0, 0, err
	}
	return v.width / w2p, v.height / w2p, v.depth, nil
}

// fixedMeasurer sets every glyph 10px wide and 20px tall.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(s string, _ text.Face) (float64, float64) {
	return float64(len([]rune(s))) * 10, 20
}

type recordingRequester struct {
	requests []NodeID
}

func (r *recordingRequester) Request(id NodeID) { r.requests = append(r.requests, id) }

func (r *recordingRequester) last() NodeID {
	if len(r.requests) == 0 {
		return NoNode
	}
	return r.requests[len(r.requests)-1]
}

// countingContent counts how often it is measured.
type countingContent struct {
	size  Vec3
	calls int
}

func (c *countingContent) Tag() string { return "#counting" }

func (c *countingContent) Measure(*Node) (Vec3, error) {
	c.calls++
	return c.size, nil
}

// newTestTree returns a tree over a 200x100 pixel window with one pixel
// per world unit and 50 units of depth.
func newTestTree(t *testing.T, opts ...Option) *Tree {
	t.Helper()
	opts = append([]Option{WithTextMeasurer(fixedMeasurer{})}, opts...)
	return NewTree(css.NewCascade(), fakeViewport{width: 200, height: 100, w2p: 1, depth: 50}, opts...)
}

// newRoot creates a root container styled by style.
func newRoot(t *testing.T, tree *Tree, style string) NodeID {
	t.Helper()
	id := tree.CreateElement("box", html.Attribute{Name: "style", Value: style})
	if err := tree.SetRoot(id); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return id
}

// addBox appends a container styled by style.
func addBox(t *testing.T, tree *Tree, parent NodeID, style string) NodeID {
	t.Helper()
	id := tree.CreateElement("box", html.Attribute{Name: "style", Value: style})
	if err := tree.AppendChild(parent, id); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	return id
}

// addMesh appends a leaf of the given extent.
func addMesh(t *testing.T, tree *Tree, parent NodeID, x, y, z float64) NodeID {
	t.Helper()
	id, err := tree.AppendContent(parent, &Mesh{Max: Vec3{x, y, z}})
	if err != nil {
		t.Fatalf("AppendContent: %v", err)
	}
	return id
}

func layoutRoot(t *testing.T, tree *Tree) {
	t.Helper()
	if err := tree.Layout(tree.Root()); err != nil {
		t.Fatalf("Layout: %v", err)
	}
}

func outerSize(t *testing.T, n *Node) Vec3 {
	t.Helper()
	v, err := n.OuterSize()
	if err != nil {
		t.Fatalf("OuterSize of %d: %v", n.ID(), err)
	}
	return v
}

// flowOffset undoes the anchor shift of place: the offset of n's outer
// box from its parent's anchor along a.
func flowOffset(t *testing.T, n *Node, a Axis) float64 {
	t.Helper()
	b, err := n.Boundaries()
	if err != nil {
		t.Fatalf("Boundaries of %d: %v", n.ID(), err)
	}
	p := n.Position().Get(a)
	if a == Y {
		p = -p
	}
	return p - b.Start(a)
}
