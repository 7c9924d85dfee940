package layout

import "fmt"

// Property names a memoized geometric value.
type Property string

const (
	PropSize            Property = "size"
	PropInnerSize       Property = "innerSize"
	PropOuterSize       Property = "outerSize"
	PropBoundaries      Property = "boundaries"
	PropMinContribution Property = "minContentContribution"
	PropMaxContribution Property = "maxContentContribution"
)

type cacheBits uint8

const (
	sizeBit cacheBits = 1 << iota
	innerSizeBit
	outerSizeBit
	boundariesBit
	minContributionBit
	maxContributionBit

	allBits = sizeBit | innerSizeBit | outerSizeBit | boundariesBit | minContributionBit | maxContributionBit
)

var propertyBits = map[Property]cacheBits{
	PropSize:            sizeBit,
	PropInnerSize:       innerSizeBit,
	PropOuterSize:       outerSizeBit,
	PropBoundaries:      boundariesBit,
	PropMinContribution: minContributionBit,
	PropMaxContribution: maxContributionBit,
}

type cache struct {
	valid cacheBits

	size            Vec3
	innerSize       Vec3
	outerSize       Vec3
	boundaries      Boundaries
	minContribution Vec3
	maxContribution Vec3
}

func (c *cache) clear(bits cacheBits) { c.valid &^= bits }
func (c *cache) has(bit cacheBits) bool {
	return c.valid&bit != 0
}

// MarkDirty forgets one memoized property of n. Dependents are the
// caller's business.
func (n *Node) MarkDirty(p Property) error {
	bit, ok := propertyBits[p]
	if !ok {
		return fmt.Errorf("%w: unknown property %q", ErrInvalidArgument, p)
	}
	n.cache.clear(bit)
	return nil
}

// MarkAllDirty forgets every memoized property of n, but not of its
// children.
func (n *Node) MarkAllDirty() {
	n.cache.clear(allBits)
}

// MarkSubtreeDirty clears the caches of id and every descendant.
func (t *Tree) MarkSubtreeDirty(id NodeID) {
	if n := t.Node(id); n != nil {
		n.markSubtreeDirty()
	}
}

func (n *Node) markSubtreeDirty() {
	n.tree.Walk(n.id, func(d *Node) bool {
		d.MarkAllDirty()
		return true
	})
}


// Size is the node's box excluding margin and including padding.
func (n *Node) Size() (Vec3, error) {
	if n.cache.has(sizeBit) {
		return n.cache.size, nil
	}
	v, err := n.computeSize()
	if err != nil {
		return Vec3{}, err
	}
	n.cache.size = v
	n.cache.valid |= sizeBit
	return v, nil
}

// InnerSize is Size minus padding: the space offered to children.
func (n *Node) InnerSize() (Vec3, error) {
	if n.cache.has(innerSizeBit) {
		return n.cache.innerSize, nil
	}
	size, err := n.Size()
	if err != nil {
		return Vec3{}, err
	}
	if n.isContainer() {
		padding, err := n.spacers("padding")
		if err != nil {
			return Vec3{}, err
		}
		size = size.Sub(padding)
	}
	n.cache.innerSize = size
	n.cache.valid |= innerSizeBit
	return size, nil
}

// OuterSize is Size plus margin.
func (n *Node) OuterSize() (Vec3, error) {
	if n.cache.has(outerSizeBit) {
		return n.cache.outerSize, nil
	}
	size, err := n.Size()
	if err != nil {
		return Vec3{}, err
	}
	if n.isContainer() {
		margin, err := n.spacers("margin")
		if err != nil {
			return Vec3{}, err
		}
		size = size.Add(margin)
	}
	n.cache.outerSize = size
	n.cache.valid |= outerSizeBit
	return size, nil
}

// Boundaries is the outer box relative to the anchor. Containers are
// anchored at the top-left-far corner of their margin box; content and
// backgrounds at their center.
func (n *Node) Boundaries() (Boundaries, error) {
	if n.cache.has(boundariesBit) {
		return n.cache.boundaries, nil
	}
	outer, err := n.OuterSize()
	if err != nil {
		return Boundaries{}, err
	}
	var b Boundaries
	if n.isContainer() {
		b = Boundaries{Right: outer.X, Bottom: outer.Y, Near: outer.Z}
	} else {
		b = Boundaries{
			Left: outer.X / 2, Right: outer.X / 2,
			Top: outer.Y / 2, Bottom: outer.Y / 2,
			Far: outer.Z / 2, Near: outer.Z / 2,
		}
	}
	n.cache.boundaries = b
	n.cache.valid |= boundariesBit
	return b, nil
}

// MinContentContribution is the smallest outer box the node can take.
func (n *Node) MinContentContribution() (Vec3, error) {
	return n.ContentContribution(Min)
}

// MaxContentContribution is the outer box the node takes when nothing
// constrains it.
func (n *Node) MaxContentContribution() (Vec3, error) {
	return n.ContentContribution(Max)
}

// ContentContribution returns the memoized min or max contribution.
func (n *Node) ContentContribution(kind ContributionKind) (Vec3, error) {
	var bit cacheBits
	switch kind {
	case Min:
		bit = minContributionBit
	case Max:
		bit = maxContributionBit
	default:
		return Vec3{}, &Error{Node: n.id, Tag: n.tag, Property: string(kind), Err: ErrInvalidArgument}
	}
	if n.cache.has(bit) {
		if kind == Min {
			return n.cache.minContribution, nil
		}
		return n.cache.maxContribution, nil
	}

	v, err := n.computeContribution(kind)
	if err != nil {
		return Vec3{}, err
	}
	if kind == Min {
		n.cache.minContribution = v
	} else {
		n.cache.maxContribution = v
	}
	n.cache.valid |= bit
	return v, nil
}

// computeSize derives the size of a node that has not been arranged, or
// whose arranged size was marked dirty.
func (n *Node) computeSize() (Vec3, error) {
	switch n.kind {
	case KindContent:
		return n.content.Measure(n)
	case KindBackground:
		parent := n.parentNode()
		if parent == nil {
			return Vec3{}, nil
		}
		inner, err := parent.InnerSize()
		if err != nil {
			return Vec3{}, err
		}
		inner.Z = 0
		return inner, nil
	}

	contribution, err := n.computeContribution(Min)
	if err != nil {
		return Vec3{}, err
	}
	margin, err := n.spacers("margin")
	if err != nil {
		return Vec3{}, err
	}
	return contribution.Sub(margin), nil
}

// setArrangedSize stores the outcome of an arrangement pass.
func (n *Node) setArrangedSize(outer, margin, padding Vec3) {
	size := outer.Sub(margin)
	n.cache.size = size
	n.cache.innerSize = size.Sub(padding)
	n.cache.outerSize = outer
	n.cache.boundaries = Boundaries{Right: outer.X, Bottom: outer.Y, Near: outer.Z}
	n.cache.valid |= sizeBit | innerSizeBit | outerSizeBit | boundariesBit
}
