package layout

import (
	"go.uber.org/zap"

	"livre3d/pkg/css"
	"livre3d/pkg/html"
	"livre3d/pkg/text"
)

// NodeID identifies a node in its Tree. IDs are never handed out twice, so
// a handle to a released node stays invalid.
type NodeID int

// NoNode is the parent of the root and of detached nodes.
const NoNode NodeID = -1

// StyleResolver returns cascaded style values. *css.Cascade implements it.
type StyleResolver interface {
	GetStyle(el css.Element, property string) string
	LocalStyle(el css.Element, property string) (string, bool)
	Invalidate(el css.Element)
	AddStylesheet(sheet *css.Stylesheet)
}

// Viewport supplies the window geometry. *viewport.Viewport implements it.
type Viewport interface {
	Width() float64
	Height() float64
	WorldToPixels() (float64, error)
	DepthPixels() (float64, error)
	WorldBox() (x, y, z float64, err error)
}

// TextMeasurer returns the pixel extent of a glyph run.
type TextMeasurer interface {
	Measure(s string, face text.Face) (width, height float64)
}

// LayoutRequester is told which node needs a new arrangement pass after a
// mutation.
type LayoutRequester interface {
	Request(id NodeID)
}

type nopRequester struct{}

func (nopRequester) Request(NodeID) {}

// Tree owns every layout node in an arena. It is not safe for concurrent
// use: mutation and layout run on one goroutine.
type Tree struct {
	nodes map[NodeID]*Node
	next  NodeID
	root  NodeID

	styles    StyleResolver
	viewport  Viewport
	measurer  TextMeasurer
	requester LayoutRequester
	log       *zap.Logger
}

type Option func(*Tree)

func WithTextMeasurer(m TextMeasurer) Option {
	return func(t *Tree) { t.measurer = m }
}

func WithRequester(r LayoutRequester) Option {
	return func(t *Tree) { t.SetRequester(r) }
}

func WithLogger(log *zap.Logger) Option {
	return func(t *Tree) {
		if log != nil {
			t.log = log
		}
	}
}

// NewTree returns an empty tree. Build or CreateElement populate it.
func NewTree(styles StyleResolver, vp Viewport, opts ...Option) *Tree {
	t := &Tree{
		nodes:     make(map[NodeID]*Node),
		root:      NoNode,
		styles:    styles,
		viewport:  vp,
		requester: nopRequester{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.measurer == nil {
		t.measurer = text.NewMeasurer(text.DefaultFontConfig())
	}
	return t
}

// SetRequester replaces the receiver of re-layout requests.
func (t *Tree) SetRequester(r LayoutRequester) {
	if r == nil {
		r = nopRequester{}
	}
	t.requester = r
}

func (t *Tree) Root() NodeID       { return t.root }
func (t *Tree) Viewport() Viewport { return t.viewport }
func (t *Tree) Styles() StyleResolver {
	return t.styles
}

// SetRoot makes a detached container the root of the tree.
func (t *Tree) SetRoot(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent != NoNode {
		return ErrHasParent
	}
	t.root = id
	return nil
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	n, _ := t.get(id)
	return n
}

func (t *Tree) get(id NodeID) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, &Error{Node: id, Err: ErrUnknownNode}
	}
	return n, nil
}

// Contains reports whether id lies in the subtree rooted at ancestor.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	for cur := t.Node(id); cur != nil; cur = cur.parentNode() {
		if cur.id == ancestor {
			return true
		}
	}
	return false
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits the subtree of id in preorder. Backgrounds are visited
// right after their owner. Returning false skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(n *Node) bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	if n.background != NoNode {
		fn(t.nodes[n.background])
	}
	for _, c := range n.children {
		t.Walk(c, fn)
	}
}

func (t *Tree) alloc(tag string, kind Kind) *Node {
	n := &Node{
		tree:       t,
		tag:        tag,
		kind:       kind,
		parent:     NoNode,
		background: NoNode,
	}
	n.id = t.next
	t.next++
	t.nodes[n.id] = n
	return n
}

// CreateElement allocates a detached container.
func (t *Tree) CreateElement(tag string, attrs ...html.Attribute) NodeID {
	n := t.alloc(tag, KindContainer)
	n.attrs = append(n.attrs, attrs...)
	return n.id
}

// CreateContent allocates a detached leaf holding c.
func (t *Tree) CreateContent(c Content) NodeID {
	n := t.alloc(c.Tag(), KindContent)
	n.content = c
	return n.id
}

// Release frees a detached subtree. Its ids are unknown to the tree from
// then on.
func (t *Tree) Release(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent != NoNode {
		return &Error{Node: id, Tag: n.tag, Err: ErrHasParent}
	}
	if id == t.root {
		t.root = NoNode
	}
	t.release(n)
	return nil
}

func (t *Tree) release(n *Node) {
	for _, c := range n.children {
		t.release(t.nodes[c])
	}
	if n.background != NoNode {
		t.release(t.nodes[n.background])
	}
	t.styles.Invalidate(n)
	delete(t.nodes, n.id)
}

// Node is one box of the layout tree. Geometry getters memoize their
// results until MarkDirty or MarkAllDirty.
type Node struct {
	tree *Tree
	id   NodeID
	tag  string

	attrs   []html.Attribute
	kind    Kind
	content Content

	parent     NodeID
	children   []NodeID
	background NodeID

	geometry
}

// geometry is everything a layout pass writes. Snapshot copies it.
type geometry struct {
	position Vec3
	// flow is the position assigned by arrangement, before alignment.
	flow Vec3

	available    Vec3
	hasAvailable bool

	// stretch is a minimum outer size imposed by the parent's alignment
	// pass. It lives until the parent arranges this node again.
	stretch   Vec3
	stretched [3]bool

	cache cache
}

func (n *Node) ID() NodeID       { return n.id }
func (n *Node) Tag() string      { return n.tag }
func (n *Node) Kind() Kind       { return n.kind }
func (n *Node) Content() Content { return n.content }
func (n *Node) Tree() *Tree      { return n.tree }
func (n *Node) Parent() NodeID   { return n.parent }

// Background returns the synthetic background child, or NoNode.
func (n *Node) Background() NodeID { return n.background }

// Children returns the flow children in layout order.
func (n *Node) Children() []NodeID {
	return append([]NodeID(nil), n.children...)
}

// Position is the anchor of the node relative to its parent's anchor.
func (n *Node) Position() Vec3 { return n.position }

// AvailableSpace returns the outer space offered by the parent during the
// last arrangement.
func (n *Node) AvailableSpace() (Vec3, bool) {
	return n.available, n.hasAvailable
}

// SetAvailableSpace offers outer space to the node. For containers a
// change invalidates the content contributions of the node and its
// children, which may resolve percentages against it.
func (n *Node) SetAvailableSpace(v Vec3) {
	if n.hasAvailable && n.available == v {
		return
	}
	n.available, n.hasAvailable = v, true
	if !n.isContainer() {
		return
	}
	n.cache.clear(minContributionBit | maxContributionBit)
	for _, c := range n.children {
		n.tree.nodes[c].cache.clear(minContributionBit | maxContributionBit)
	}
}

func (n *Node) isContainer() bool { return n.kind == KindContainer }

// TagName, Attribute and ParentElement make a Node a css.Element.
func (n *Node) TagName() string { return n.tag }

func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) Attributes() []html.Attribute {
	return append([]html.Attribute(nil), n.attrs...)
}

func (n *Node) ParentElement() css.Element {
	if n.parent == NoNode {
		return nil
	}
	return n.tree.nodes[n.parent]
}

func (n *Node) parentNode() *Node {
	if n.parent == NoNode {
		return nil
	}
	return n.tree.nodes[n.parent]
}

// GetStyle resolves a property through the tree's style resolver.
func (n *Node) GetStyle(property string) string {
	if alias, ok := styleAliases[n.tag][property]; ok {
		property = alias
	}
	return n.tree.styles.GetStyle(n, property)
}

func (n *Node) localStyle(property string) (string, bool) {
	if alias, ok := styleAliases[n.tag][property]; ok {
		property = alias
	}
	return n.tree.styles.LocalStyle(n, property)
}

// styleAliases redirects properties per tag: a word's right margin is the
// inherited word spacing.
var styleAliases = map[string]map[string]string{
	WordTag: {"margin-right": "word-spacing"},
}
