package layout

import (
	"math"
	"strconv"
	"strings"

	"livre3d/pkg/css"
)

// Axes maps the direction style onto the spatial axes: row flows along x,
// stack along z and anything else along y.
func (n *Node) Axes() Axes {
	switch css.ParseDirection(n.GetStyle("direction")) {
	case css.DirectionRow:
		return Axes{Main: X, Cross: Y, Other: Z}
	case css.DirectionStack:
		return Axes{Main: Z, Cross: X, Other: Y}
	}
	return Axes{Main: Y, Cross: X, Other: Z}
}

// Grow is the share weight of the node in leftover main axis space.
// Malformed and negative values count as zero.
func (n *Node) Grow() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.GetStyle("grow")), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// computeContribution aggregates the children's contributions. Content
// contributes its intrinsic size for both kinds.
func (n *Node) computeContribution(kind ContributionKind) (Vec3, error) {
	if !n.isContainer() {
		return n.computeSize()
	}

	axes := n.Axes()
	sumMain := kind == Max || css.ParseWrap(n.GetStyle("wrap")) == css.WrapNone

	var agg Vec3
	for _, id := range n.children {
		cc, err := n.tree.nodes[id].ContentContribution(kind)
		if err != nil {
			return Vec3{}, err
		}
		for _, a := range allAxes {
			if a == axes.Main && sumMain {
				agg.Set(a, agg.Get(a)+cc.Get(a))
			} else {
				agg.Set(a, max(agg.Get(a), cc.Get(a)))
			}
		}
	}

	inner, err := n.clampInner(agg)
	if err != nil {
		return Vec3{}, err
	}
	padding, err := n.spacers("padding")
	if err != nil {
		return Vec3{}, err
	}
	margin, err := n.spacers("margin")
	if err != nil {
		return Vec3{}, err
	}
	return inner.Add(padding).Add(margin), nil
}

// clampInner applies the node's own width/height/depth styles to a content
// extent: an explicit size wins, otherwise the min and max bounds clamp.
func (n *Node) clampInner(v Vec3) (Vec3, error) {
	for _, a := range allAxes {
		c, err := n.clampAxis(a, v.Get(a))
		if err != nil {
			return Vec3{}, err
		}
		v.Set(a, c)
	}
	return v, nil
}

func (n *Node) clampAxis(a Axis, v float64) (float64, error) {
	if explicit, ok, err := n.explicitSize(a); err != nil || ok {
		return explicit, err
	}
	if lo, ok, err := n.Convert("min-"+a.dimension(), World); err != nil {
		return 0, err
	} else if ok {
		v = max(v, lo)
	}
	if hi, ok, err := n.Convert("max-"+a.dimension(), World); err != nil {
		return 0, err
	} else if ok {
		v = min(v, hi)
	}
	return v, nil
}

// explicitSize is the declared inner size on the axis.
func (n *Node) explicitSize(a Axis) (float64, bool, error) {
	return n.Convert(a.dimension(), World)
}
