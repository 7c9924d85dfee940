package layout

import (
	"strings"

	"livre3d/pkg/css"
)

// Convert resolves the length declared for property on n. ok is false
// when the property resolves to initial, or to a percentage of an
// indefinite size.
func (n *Node) Convert(property string, target Target) (value float64, ok bool, err error) {
	size, ok, err := css.ParseSize(n.GetStyle(property))
	if err != nil {
		return 0, false, n.errorf(property, err)
	}
	if !ok {
		return 0, false, nil
	}

	value, ok, err = n.toPixels(property, size)
	if err != nil || !ok {
		return 0, ok, err
	}
	if target == World {
		w2p, err := n.tree.viewport.WorldToPixels()
		if err != nil {
			return 0, false, n.errorf(property, err)
		}
		value /= w2p
	}
	return value, true, nil
}

func (n *Node) toPixels(property string, size css.Size) (float64, bool, error) {
	vp := n.tree.viewport
	q := size.Quantum

	switch size.Unit {
	case css.UnitPx:
		return q, true, nil

	case css.UnitRem:
		return q * css.REMSize, true, nil

	case css.UnitEm:
		base, err := n.emBase(property)
		if err != nil {
			return 0, false, err
		}
		return q * base, true, nil

	case css.UnitVw:
		return q * vp.Width() / 100, true, nil

	case css.UnitVh:
		return q * vp.Height() / 100, true, nil

	case css.UnitVd:
		depth, err := vp.DepthPixels()
		if err != nil {
			return 0, false, n.errorf(property, err)
		}
		return q * depth / 100, true, nil

	case css.UnitPercent:
		if axis, ok := propertyAxis(property); ok {
			basis, ok, err := n.percentBasis(axis)
			if err != nil || !ok {
				return 0, false, err
			}
			w2p, err := vp.WorldToPixels()
			if err != nil {
				return 0, false, n.errorf(property, err)
			}
			return basis * w2p * q / 100, true, nil
		}
		return n.percentChain(property, q/100)
	}
	return 0, false, n.errorf(property, css.ErrInvalidUnit)
}

// emBase is the font size em lengths multiply. For font-size itself that
// is the parent's font size.
func (n *Node) emBase(property string) (float64, error) {
	if property == "font-size" {
		if p := n.parentNode(); p != nil {
			return p.FontSize()
		}
		return css.REMSize, nil
	}
	return n.FontSize()
}

// propertyAxis infers the axis a percentage refers to from the property
// name.
func propertyAxis(property string) (Axis, bool) {
	switch {
	case strings.HasSuffix(property, "width"):
		return X, true
	case strings.HasSuffix(property, "height"):
		return Y, true
	case strings.HasSuffix(property, "depth"):
		return Z, true
	}
	return 0, false
}

// percentBasis is the parent's definite inner size on the axis, in world
// units. The root resolves against the viewport.
func (n *Node) percentBasis(a Axis) (float64, bool, error) {
	parent := n.parentNode()
	if parent == nil {
		x, y, z, err := n.tree.viewport.WorldBox()
		if err != nil {
			return 0, false, n.errorf(a.dimension(), err)
		}
		return Vec3{x, y, z}.Get(a), true, nil
	}
	return parent.definiteInnerSize(a)
}

// definiteInnerSize is the inner size on the axis when it is known
// without laying out the children: an explicit dimension, or the space
// offered by the parent minus spacers.
func (n *Node) definiteInnerSize(a Axis) (float64, bool, error) {
	if v, ok, err := n.Convert(a.dimension(), World); err != nil || ok {
		return v, ok, err
	}

	space, ok := n.available, n.hasAvailable
	if !ok && n.parent == NoNode {
		x, y, z, err := n.tree.viewport.WorldBox()
		if err != nil {
			return 0, false, n.errorf(a.dimension(), err)
		}
		space, ok = Vec3{x, y, z}, true
	}
	if !ok {
		return 0, false, nil
	}

	margin, err := n.spacers("margin")
	if err != nil {
		return 0, false, err
	}
	padding, err := n.spacers("padding")
	if err != nil {
		return 0, false, err
	}
	return max(space.Get(a)-margin.Get(a)-padding.Get(a), 0), true, nil
}

// percentChain resolves a percentage of a property that names no axis by
// multiplying through ancestors until one declares an absolute length.
// An ancestor at initial, or running out of ancestors, yields zero.
func (n *Node) percentChain(property string, multiplier float64) (float64, bool, error) {
	for cur := n.parentNode(); cur != nil; cur = cur.parentNode() {
		size, ok, err := css.ParseSize(cur.GetStyle(property))
		if err != nil {
			return 0, false, cur.errorf(property, err)
		}
		if !ok {
			return 0, true, nil
		}
		if size.Unit == css.UnitPercent {
			multiplier *= size.Quantum / 100
			continue
		}
		px, ok, err := cur.toPixels(property, size)
		if err != nil || !ok {
			return 0, ok, err
		}
		return px * multiplier, true, nil
	}
	return 0, true, nil
}

// FontSize is the resolved font size in pixels. Nodes that do not declare
// one take their parent's; em and percentages scale the parent's.
func (n *Node) FontSize() (float64, error) {
	parentSize := css.REMSize
	if p := n.parentNode(); p != nil {
		var err error
		if parentSize, err = p.FontSize(); err != nil {
			return 0, err
		}
	}

	value, declared := n.localStyle("font-size")
	if !declared {
		return parentSize, nil
	}
	size, ok, err := css.ParseSize(value)
	if err != nil {
		return 0, n.errorf("font-size", err)
	}
	if !ok {
		return parentSize, nil
	}
	switch size.Unit {
	case css.UnitEm:
		return parentSize * size.Quantum, nil
	case css.UnitPercent:
		return parentSize * size.Quantum / 100, nil
	}
	px, _, err := n.toPixels("font-size", size)
	return px, err
}

// spacers sums the opposing edges of margin or padding on each axis.
// Content and backgrounds have none.
func (n *Node) spacers(kind string) (Vec3, error) {
	var v Vec3
	if !n.isContainer() {
		return v, nil
	}
	for _, a := range allAxes {
		start, err := n.edge(kind, a.startEdge())
		if err != nil {
			return Vec3{}, err
		}
		end, err := n.edge(kind, a.endEdge())
		if err != nil {
			return Vec3{}, err
		}
		v.Set(a, start+end)
	}
	return v, nil
}

// origin is the offset of the content box from the anchor: margin plus
// padding on the start edge of each axis.
func (n *Node) origin() (Vec3, error) {
	var v Vec3
	for _, a := range allAxes {
		margin, err := n.edge("margin", a.startEdge())
		if err != nil {
			return Vec3{}, err
		}
		padding, err := n.edge("padding", a.startEdge())
		if err != nil {
			return Vec3{}, err
		}
		v.Set(a, margin+padding)
	}
	return v, nil
}

func (n *Node) edge(kind, edge string) (float64, error) {
	v, _, err := n.Convert(kind+"-"+edge, World)
	return v, err
}

func (n *Node) errorf(property string, err error) error {
	return &Error{Node: n.id, Tag: n.tag, Property: property, Err: err}
}
