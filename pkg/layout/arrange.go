package layout

import (
	"livre3d/pkg/css"
)

// Arrange sizes and positions the children of n inside its available
// space, arranging container children depth-first, then sets n's own
// size. Positions written here are pre-alignment; AlignChildren adjusts
// them along the cross axis.
func (n *Node) Arrange() error {
	if !n.isContainer() {
		return nil
	}
	if !n.hasAvailable {
		return n.errorf("availableSpace", ErrMissingAvailableSpace)
	}

	axes := n.Axes()
	margin, err := n.spacers("margin")
	if err != nil {
		return err
	}
	padding, err := n.spacers("padding")
	if err != nil {
		return err
	}
	origin, err := n.origin()
	if err != nil {
		return err
	}

	mainOuter, err := n.mainOuterSize(axes.Main)
	if err != nil {
		return err
	}
	space, err := n.contentSpace(axes, mainOuter, margin, padding)
	if err != nil {
		return err
	}

	// Stretch from the previous alignment pass no longer applies
	for _, id := range n.children {
		c := n.tree.nodes[id]
		c.stretched = [3]bool{}
	}

	lines, err := n.breakLines(space, axes)
	if err != nil {
		return err
	}

	var crossUsed, otherExtent float64
	for i, line := range lines {
		if err := n.offerSpace(line, space, crossUsed, axes); err != nil {
			return err
		}

		outers := make([]Vec3, len(line))
		var sum, lineCross float64
		for j, c := range line {
			if outers[j], err = c.OuterSize(); err != nil {
				return err
			}
			sum += outers[j].Get(axes.Main)
			lineCross = max(lineCross, outers[j].Get(axes.Cross))
			otherExtent = max(otherExtent, outers[j].Get(axes.Other))
		}

		slack := max(space.Get(axes.Main)-sum, 0)
		lead, gap := distributeSlack(n.justifyFor(i == len(lines)-1), slack, len(line))

		off := lead
		for j, c := range line {
			var offset Vec3
			offset.Set(axes.Main, origin.Get(axes.Main)+off)
			offset.Set(axes.Cross, origin.Get(axes.Cross)+crossUsed)
			offset.Set(axes.Other, origin.Get(axes.Other))
			if err := c.place(offset); err != nil {
				return err
			}
			off += outers[j].Get(axes.Main) + gap
		}
		crossUsed += lineCross
	}

	outer, err := n.outerSizeAfterFlow(axes, mainOuter, crossUsed, otherExtent, margin, padding)
	if err != nil {
		return err
	}
	n.setArrangedSize(outer, margin, padding)

	if n.background != NoNode {
		bg := n.tree.nodes[n.background]
		bg.MarkAllDirty()
		if err := bg.place(origin); err != nil {
			return err
		}
	}
	return nil
}

// breakLines partitions the children into lines by their minimum main
// axis contribution. A child that alone overflows still gets a line.
func (n *Node) breakLines(space Vec3, axes Axes) ([][]*Node, error) {
	wrap := css.ParseWrap(n.GetStyle("wrap")) == css.WrapWrap
	limit := space.Get(axes.Main)

	var lines [][]*Node
	var cur []*Node
	var used float64
	for _, id := range n.children {
		c := n.tree.nodes[id]
		mc, err := c.MinContentContribution()
		if err != nil {
			return nil, err
		}
		m := mc.Get(axes.Main)
		if wrap && len(cur) > 0 && used+m > limit {
			lines = append(lines, cur)
			cur, used = nil, 0
		}
		cur = append(cur, c)
		used += m
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines, nil
}

// offerSpace shares the line's leftover main axis space by grow weight,
// offers each child its space and arranges container children.
func (n *Node) offerSpace(line []*Node, space Vec3, crossUsed float64, axes Axes) error {
	mins := make([]Vec3, len(line))
	var used, totalGrow float64
	for i, c := range line {
		var err error
		if mins[i], err = c.MinContentContribution(); err != nil {
			return err
		}
		used += mins[i].Get(axes.Main)
		totalGrow += c.Grow()
	}
	leftover := space.Get(axes.Main) - used

	for i, c := range line {
		var share float64
		if leftover > 0 && totalGrow > 0 {
			share = leftover * c.Grow() / totalGrow
		}
		var avail Vec3
		avail.Set(axes.Main, mins[i].Get(axes.Main)+share)
		avail.Set(axes.Cross, max(space.Get(axes.Cross)-crossUsed, 0))
		avail.Set(axes.Other, space.Get(axes.Other))
		c.SetAvailableSpace(avail)

		if c.isContainer() {
			if err := c.Arrange(); err != nil {
				return err
			}
		}
	}
	return nil
}

// mainOuterSize is the outer size of n on its main axis: the offered
// space within its content contributions.
func (n *Node) mainOuterSize(main Axis) (float64, error) {
	minC, err := n.MinContentContribution()
	if err != nil {
		return 0, err
	}
	maxC, err := n.MaxContentContribution()
	if err != nil {
		return 0, err
	}

	lo, hi := minC.Get(main), maxC.Get(main)
	if a, ok, err := n.growAxis(); err != nil {
		return 0, err
	} else if ok && a == main {
		hi = max(hi, n.available.Get(main))
	}
	outer := max(min(n.available.Get(main), hi), lo)
	if n.stretched[main] {
		outer = max(outer, n.stretch.Get(main))
	}
	return outer, nil
}

// contentSpace is the room children are laid out in. On the main axis it
// follows the node's own size; on the other axes an explicit size wins
// over the offered space.
func (n *Node) contentSpace(axes Axes, mainOuter float64, margin, padding Vec3) (Vec3, error) {
	var space Vec3
	space.Set(axes.Main, max(mainOuter-margin.Get(axes.Main)-padding.Get(axes.Main), 0))
	for _, a := range [...]Axis{axes.Cross, axes.Other} {
		offered := max(n.available.Get(a)-margin.Get(a)-padding.Get(a), 0)
		if n.stretched[a] {
			offered = max(offered, n.stretch.Get(a)-margin.Get(a)-padding.Get(a))
		}
		v, err := n.clampAxis(a, offered)
		if err != nil {
			return Vec3{}, err
		}
		space.Set(a, v)
	}
	return space, nil
}

// outerSizeAfterFlow settles the node's outer size once its lines are
// known. Cross and other axes wrap the lines.
func (n *Node) outerSizeAfterFlow(axes Axes, mainOuter, crossExtent, otherExtent float64, margin, padding Vec3) (Vec3, error) {
	var outer Vec3
	outer.Set(axes.Main, mainOuter)

	extents := [...]struct {
		axis   Axis
		extent float64
	}{{axes.Cross, crossExtent}, {axes.Other, otherExtent}}
	for _, e := range extents {
		inner, err := n.clampAxis(e.axis, e.extent)
		if err != nil {
			return Vec3{}, err
		}
		outer.Set(e.axis, inner+padding.Get(e.axis)+margin.Get(e.axis))
	}

	if a, ok, err := n.growAxis(); err != nil {
		return Vec3{}, err
	} else if ok && a != axes.Main {
		outer.Set(a, max(outer.Get(a), n.available.Get(a)))
	}

	for _, a := range [...]Axis{axes.Cross, axes.Other} {
		if n.stretched[a] {
			outer.Set(a, max(outer.Get(a), n.stretch.Get(a)))
		}
	}
	return outer, nil
}

// growAxis is the parent's main axis when n takes a share of the leftover
// space along it. A growing node without an explicit size there fills
// what it was offered, even beyond its maximum contribution.
func (n *Node) growAxis() (Axis, bool, error) {
	p := n.parentNode()
	if p == nil || n.Grow() <= 0 {
		return 0, false, nil
	}
	a := p.Axes().Main
	_, explicit, err := n.explicitSize(a)
	if err != nil || explicit {
		return 0, false, err
	}
	return a, true, nil
}

// place anchors the node at offset, measured from the parent's anchor
// with y growing downward. Content is centered on its anchor.
func (n *Node) place(offset Vec3) error {
	b, err := n.Boundaries()
	if err != nil {
		return err
	}
	p := Vec3{
		X: offset.X + b.Left,
		Y: -(offset.Y + b.Top),
		Z: offset.Z + b.Far,
	}
	n.flow, n.position = p, p
	return nil
}

// justifyFor picks the distribution of a line. A declared text-align
// overrides justify-content.
func (n *Node) justifyFor(lastLine bool) css.Justify {
	if align, ok := css.ParseTextAlign(n.GetStyle("text-align")); ok {
		return align.Justify(lastLine)
	}
	return css.ParseJustify(n.GetStyle("justify-content"))
}

// distributeSlack returns the offset before the first of count children
// and the gap between consecutive ones.
func distributeSlack(j css.Justify, slack float64, count int) (lead, gap float64) {
	if count == 0 {
		return 0, 0
	}
	k := float64(count)
	switch j {
	case css.JustifyEnd:
		return slack, 0
	case css.JustifyCenter:
		return slack / 2, 0
	case css.JustifySpaceBetween:
		if count > 1 {
			return 0, slack / (k - 1)
		}
	case css.JustifySpaceAround:
		gap = slack / k
		return gap / 2, gap
	case css.JustifySpaceEvenly:
		gap = slack / (k + 1)
		return gap, gap
	}
	return 0, 0
}
