package layout

import (
	"livre3d/pkg/css"
)

// AlignChildren moves each child of n along the cross axis according to
// align-self, or n's align-items, then aligns the child's own children.
// It starts from the positions Arrange wrote, so running it twice gives
// the same result.
func (n *Node) AlignChildren() error {
	if !n.isContainer() {
		return nil
	}
	inner, err := n.InnerSize()
	if err != nil {
		return err
	}
	cross := n.Axes().Cross
	alignItems := css.ParseAlign(n.GetStyle("align-items"))

	for _, id := range n.children {
		c := n.tree.nodes[id]
		outer, err := c.OuterSize()
		if err != nil {
			return err
		}
		free := max(inner.Get(cross)-outer.Get(cross), 0)

		align := alignItems
		if self := c.GetStyle("align-self"); self != css.Initial {
			align = css.ParseAlign(self)
		}

		var shift float64
		switch align {
		case css.AlignCenter:
			shift = free / 2
		case css.AlignEnd:
			shift = free
		case css.AlignStretch:
			if err := c.stretchTo(cross, outer.Get(cross)+free); err != nil {
				return err
			}
		}

		pos := c.flow
		if cross == Y {
			pos.Y -= shift
		} else {
			pos.Set(cross, pos.Get(cross)+shift)
		}
		c.position = pos

		if err := c.AlignChildren(); err != nil {
			return err
		}
	}
	return nil
}

// stretchTo grows a container's outer size on the axis and arranges its
// children again inside the larger box. Content keeps its size.
func (n *Node) stretchTo(a Axis, outer float64) error {
	if !n.isContainer() {
		return nil
	}
	if n.stretched[a] && n.stretch.Get(a) == outer {
		return nil
	}
	n.stretch.Set(a, outer)
	n.stretched[a] = true

	avail := n.available
	avail.Set(a, max(avail.Get(a), outer))
	n.SetAvailableSpace(avail)
	return n.Arrange()
}

// Layout runs a full pass on the subtree rooted at id: arrangement, then
// alignment. The tree root is offered the whole viewport; any other node
// keeps the space its parent offered during the last pass.
func (t *Tree) Layout(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if id == t.root {
		x, y, z, err := t.viewport.WorldBox()
		if err != nil {
			return n.errorf("availableSpace", err)
		}
		n.SetAvailableSpace(Vec3{x, y, z})
	}
	if err := n.Arrange(); err != nil {
		return err
	}
	return n.AlignChildren()
}
