package js

import (
	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// elementChildren are the container children that are not words.
func elementChildren(tree *layout.Tree, id layout.NodeID) []layout.NodeID {
	n := tree.Node(id)
	if n == nil {
		return nil
	}
	var out []layout.NodeID
	for _, c := range n.Children() {
		if cn := tree.Node(c); cn.Kind() == layout.KindContainer && cn.Tag() != layout.WordTag {
			out = append(out, c)
		}
	}
	return out
}

func (e *element) children() []layout.NodeID {
	return elementChildren(e.ctx.tree, e.id)
}

// sibling returns the element delta places away among the parent's
// element children, or null.
func (e *element) sibling(delta int) goja.Value {
	p := e.node().Parent()
	if p == layout.NoNode {
		return goja.Null()
	}
	sibs := elementChildren(e.ctx.tree, p)
	for i, id := range sibs {
		if id != e.id {
			continue
		}
		if j := i + delta; j >= 0 && j < len(sibs) {
			return e.ctx.proxy(sibs[j])
		}
		break
	}
	return goja.Null()
}

func (e *element) firstElementChild() goja.Value {
	return e.ctx.firstOrNull(e.children())
}

func (e *element) lastElementChild() goja.Value {
	c := e.children()
	if len(c) == 0 {
		return goja.Null()
	}
	return e.ctx.proxy(c[len(c)-1])
}

func (e *element) nextElementSibling() goja.Value     { return e.sibling(1) }
func (e *element) previousElementSibling() goja.Value { return e.sibling(-1) }
