package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"livre3d/pkg/css"
	"livre3d/pkg/html"
)

// BackgroundTag names synthetic background leaves for style matching.
const BackgroundTag = "#background"

// AppendChild attaches a detached node as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) error {
	return t.insert(parent, child, -1)
}

// InsertBefore attaches a detached node before ref, which must be a child
// of parent.
func (t *Tree) InsertBefore(parent, child, ref NodeID) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	i := p.childIndex(ref)
	if i < 0 {
		return &Error{Node: ref, Tag: p.tag, Err: ErrNotAChild}
	}
	return t.insert(parent, child, i)
}

func (t *Tree) insert(parent, child NodeID, at int) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	c, err := t.get(child)
	if err != nil {
		return err
	}
	if !p.isContainer() {
		return &Error{Node: parent, Tag: p.tag, Err: ErrNotAContainer}
	}
	if c.parent != NoNode || child == t.root {
		return &Error{Node: child, Tag: c.tag, Err: ErrHasParent}
	}
	for cur := p; cur != nil; cur = cur.parentNode() {
		if cur.id == child {
			return &Error{Node: child, Tag: c.tag, Err: fmt.Errorf("%w: would create a cycle", ErrInvalidArgument)}
		}
	}

	if at < 0 {
		p.children = append(p.children, child)
	} else {
		p.children = append(p.children, NoNode)
		copy(p.children[at+1:], p.children[at:])
		p.children[at] = child
	}
	c.parent = parent

	t.restyle(c)
	t.invalidate(p)
	return nil
}

// RemoveChild detaches child from parent. The subtree stays allocated
// until Release.
func (t *Tree) RemoveChild(parent, child NodeID) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	i := p.childIndex(child)
	if i < 0 {
		return &Error{Node: child, Tag: p.tag, Err: ErrNotAChild}
	}
	c := t.nodes[child]

	p.children = append(p.children[:i], p.children[i+1:]...)
	c.parent = NoNode
	c.hasAvailable = false

	t.restyle(c)
	t.invalidate(p)
	return nil
}

// SetAttribute sets or replaces an attribute. Selectors may match
// differently afterwards, so the whole subtree is restyled.
func (t *Tree) SetAttribute(id NodeID, name, value string) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	replaced := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		n.attrs = append(n.attrs, html.Attribute{Name: name, Value: value})
	}

	t.restyle(n)
	if p := n.parentNode(); p != nil {
		t.invalidate(p)
	} else {
		t.invalidate(n)
	}
	return nil
}

// RemoveAttribute drops an attribute. Removing one that is not set is a
// no-op and requests nothing.
func (t *Tree) RemoveAttribute(id NodeID, name string) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	i := -1
	for j := range n.attrs {
		if n.attrs[j].Name == name {
			i = j
			break
		}
	}
	if i < 0 {
		return nil
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)

	t.restyle(n)
	if p := n.parentNode(); p != nil {
		t.invalidate(p)
	} else {
		t.invalidate(n)
	}
	return nil
}

// SetText replaces the children of a container with the words of s.
func (t *Tree) SetText(id NodeID, s string) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if !n.isContainer() {
		return &Error{Node: id, Tag: n.tag, Err: ErrNotAContainer}
	}
	for _, c := range n.Children() {
		if err := t.RemoveChild(id, c); err != nil {
			return err
		}
		if err := t.Release(c); err != nil {
			return err
		}
	}
	return t.AppendText(id, s)
}

// AppendText splits s on whitespace and appends one word container per
// word, each holding a text run.
func (t *Tree) AppendText(id NodeID, s string) error {
	for _, w := range strings.Fields(s) {
		word := t.CreateElement(WordTag)
		run := t.CreateContent(&TextRun{Text: w})
		if err := t.AppendChild(word, run); err != nil {
			return err
		}
		if err := t.AppendChild(id, word); err != nil {
			t.release(t.nodes[word])
			return err
		}
	}
	return nil
}

// AppendContent wraps c in a leaf and appends it to parent. Content that
// arrives after the first layout goes through here.
func (t *Tree) AppendContent(parent NodeID, c Content) (NodeID, error) {
	id := t.CreateContent(c)
	if err := t.AppendChild(parent, id); err != nil {
		t.release(t.nodes[id])
		return NoNode, err
	}
	return id, nil
}

// Import parses a markup fragment and appends its elements to parent.
// Style blocks in the fragment are added to the cascade.
func (t *Tree) Import(markup string, parent NodeID) ([]Pending, error) {
	doc, err := html.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if err := t.addStylesheets(doc); err != nil {
		return nil, err
	}
	b := &builder{tree: t}
	if err := b.buildChildren(parent, doc.Body()); err != nil {
		return nil, err
	}
	return b.pending, nil
}

func (n *Node) childIndex(id NodeID) int {
	for i, c := range n.children {
		if c == id {
			return i
		}
	}
	return -1
}

// restyle drops the memoized styles and geometry of n's subtree and
// brings synthetic backgrounds in line with background-color.
func (t *Tree) restyle(n *Node) {
	t.Walk(n.id, func(d *Node) bool {
		t.styles.Invalidate(d)
		d.MarkAllDirty()
		return true
	})
	t.Walk(n.id, func(d *Node) bool {
		if d.kind != KindBackground {
			t.syncBackground(d)
		}
		return true
	})
}

// syncBackground creates the background leaf of a container that declares
// a background-color and drops it from one that no longer does.
func (t *Tree) syncBackground(n *Node) {
	if !n.isContainer() {
		return
	}
	want := n.GetStyle("background-color") != css.Initial
	switch {
	case want && n.background == NoNode:
		bg := t.alloc(BackgroundTag, KindBackground)
		bg.parent = n.id
		n.background = bg.id
	case !want && n.background != NoNode:
		bg := t.nodes[n.background]
		n.background = NoNode
		bg.parent = NoNode
		t.release(bg)
	}
}

// ArrangeableAncestor returns the nearest node, starting at id, whose
// outer size cannot change when its content does: it declares a size on
// every axis and was already offered space. Otherwise the root. NoNode
// means id is not attached to the root.
func (t *Tree) ArrangeableAncestor(id NodeID) NodeID {
	n := t.Node(id)
	for cur := n; cur != nil; cur = cur.parentNode() {
		if cur.id == t.root {
			return t.root
		}
		if cur.isContainer() && cur.hasAvailable && cur.fixedSize() {
			if t.attached(cur) {
				return cur.id
			}
			return NoNode
		}
	}
	return NoNode
}

func (t *Tree) attached(n *Node) bool {
	for cur := n; cur != nil; cur = cur.parentNode() {
		if cur.id == t.root {
			return true
		}
	}
	return false
}

func (n *Node) fixedSize() bool {
	for _, a := range allAxes {
		if _, ok, err := n.explicitSize(a); err != nil || !ok {
			return false
		}
	}
	return true
}

// invalidate clears the geometry of n and its ancestors up to the node
// that will be arranged again, then requests that pass. Ancestors above
// it keep their sizes since its outer size is fixed.
func (t *Tree) invalidate(n *Node) {
	target := t.ArrangeableAncestor(n.id)
	for cur := n; cur != nil; cur = cur.parentNode() {
		cur.MarkAllDirty()
		if cur.id == target {
			break
		}
	}
	if target == NoNode {
		return
	}
	t.log.Debug("layout requested", zap.Int("node", int(target)), zap.Int("changed", int(n.id)))
	t.requester.Request(target)
}
