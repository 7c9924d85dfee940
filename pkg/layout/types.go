package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks misuse of an internal contract.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingAvailableSpace is returned when a node is arranged before
	// its parent offered it any space.
	ErrMissingAvailableSpace = errors.New("available space not set")
	ErrUnknownNode           = errors.New("unknown node")
	ErrNotAChild             = errors.New("node is not a child of the given parent")
	ErrHasParent             = errors.New("node already has a parent")
	ErrNotAContainer         = errors.New("node cannot hold children")
	ErrInvalidAttribute      = errors.New("invalid attribute")
)

// Error ties a layout failure to the node and property that caused it.
type Error struct {
	Node     NodeID
	Tag      string
	Property string
	Err      error
}

func (e *Error) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("layout: node %d (%s): %v", e.Node, e.Tag, e.Err)
	}
	return fmt.Sprintf("layout: node %d (%s) %s: %v", e.Node, e.Tag, e.Property, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Axis int

const (
	X Axis = iota
	Y
	Z
)

var allAxes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// dimension is the style property naming the extent along the axis.
func (a Axis) dimension() string {
	return [...]string{"width", "height", "depth"}[a]
}

// startEdge and endEdge name the box edges where offsets begin and end.
func (a Axis) startEdge() string {
	return [...]string{"left", "top", "far"}[a]
}

func (a Axis) endEdge() string {
	return [...]string{"right", "bottom", "near"}[a]
}

// Vec3 is a point or an extent in world units. Y grows upward and Z grows
// toward the viewer.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Get(a Axis) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	}
	return v.Z
}

func (v *Vec3) Set(a Axis, value float64) {
	switch a {
	case X:
		v.X = value
	case Y:
		v.Y = value
	default:
		v.Z = value
	}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Axes maps a container's flow onto the spatial axes.
type Axes struct {
	Main, Cross, Other Axis
}

// Boundaries is the extent of a node's box around its anchor point.
type Boundaries struct {
	Left, Right, Top, Bottom, Far, Near float64
}

// Start returns the distance from the anchor to the box edge where flow
// offsets begin on the axis.
func (b Boundaries) Start(a Axis) float64 {
	switch a {
	case X:
		return b.Left
	case Y:
		return b.Top
	}
	return b.Far
}

// Kind separates arrangeable containers from opaque content.
type Kind int

const (
	KindContainer Kind = iota
	KindContent
	KindBackground
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindContent:
		return "content"
	case KindBackground:
		return "background"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ContributionKind selects the minimum or maximum content contribution.
type ContributionKind string

const (
	Min ContributionKind = "min"
	Max ContributionKind = "max"
)

// Target is the unit a converted length is expressed in.
type Target int

const (
	Pixels Target = iota
	World
)
