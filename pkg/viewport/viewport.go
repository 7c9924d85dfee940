// Package viewport holds the window and camera geometry shared by the
// unit converter, the layout driver and the renderers.
package viewport

import (
	"errors"
	"math"
)

// ErrUndefined is returned while the window or world width is unknown.
var ErrUndefined = errors.New("screen geometry has not been defined")

const (
	DefaultWorldWidth   = 100.0
	DefaultHFOV         = 60.0
	DefaultNearFarRatio = 0.5
)

// Viewport maps window pixels to world units. One world unit spans
// WorldToPixels pixels on the far plane (z = 0). The camera looks down
// -z from Far with the world's top-left corner at the origin.
type Viewport struct {
	worldWidth   float64
	hfov         float64
	nearFarRatio float64
	width        float64
	height       float64
}

// New returns a viewport with no window size. Zero or negative arguments
// take the defaults.
func New(worldWidth, hfov, nearFarRatio float64) *Viewport {
	if worldWidth <= 0 {
		worldWidth = DefaultWorldWidth
	}
	if hfov <= 0 || hfov >= 180 {
		hfov = DefaultHFOV
	}
	if nearFarRatio <= 0 || nearFarRatio >= 1 {
		nearFarRatio = DefaultNearFarRatio
	}
	return &Viewport{worldWidth: worldWidth, hfov: hfov, nearFarRatio: nearFarRatio}
}

// Resize records the window size in pixels.
func (v *Viewport) Resize(width, height float64) {
	v.width, v.height = width, height
}

func (v *Viewport) Width() float64      { return v.width }
func (v *Viewport) Height() float64     { return v.height }
func (v *Viewport) WorldWidth() float64 { return v.worldWidth }
func (v *Viewport) HFOV() float64       { return v.hfov }

// WorldToPixels is the number of pixels covered by one world unit at z = 0.
func (v *Viewport) WorldToPixels() (float64, error) {
	if v.width <= 0 || v.worldWidth <= 0 {
		return 0, ErrUndefined
	}
	return v.width / v.worldWidth, nil
}

// Far is the camera distance to the z = 0 plane that makes WorldWidth
// exactly fill the horizontal field of view.
func (v *Viewport) Far() float64 {
	return v.worldWidth / (2 * math.Tan(v.hfov/2*math.Pi/180))
}

func (v *Viewport) Near() float64 {
	return v.Far() * v.nearFarRatio
}

// Depth is the usable z span in world units.
func (v *Viewport) Depth() float64 {
	return v.Far() - v.Near()
}

// DepthPixels is Depth expressed in pixels, the basis of the vd unit.
func (v *Viewport) DepthPixels() (float64, error) {
	w2p, err := v.WorldToPixels()
	if err != nil {
		return 0, err
	}
	return v.Depth() * w2p, nil
}

// FontScaleFactor converts a glyph canvas width in pixels to world units.
func (v *Viewport) FontScaleFactor(canvasWidth float64) (float64, error) {
	w2p, err := v.WorldToPixels()
	if err != nil {
		return 0, err
	}
	return canvasWidth / w2p, nil
}

func (v *Viewport) AspectRatio() float64 {
	if v.height <= 0 {
		return 1
	}
	return v.width / v.height
}

// VerticalFOV derives the vertical field of view in degrees from the
// horizontal one and the current aspect ratio.
func (v *Viewport) VerticalFOV() float64 {
	hfov := v.hfov * math.Pi / 180
	return 2 * math.Atan(math.Tan(hfov/2)/v.AspectRatio()) * 180 / math.Pi
}

// WorldBox is the window expressed in world units: the space offered to
// the root of the layout tree.
func (v *Viewport) WorldBox() (x, y, z float64, err error) {
	w2p, err := v.WorldToPixels()
	if err != nil {
		return 0, 0, 0, err
	}
	return v.width / w2p, v.height / w2p, v.Depth(), nil
}

// Camera describes the perspective camera looking at the scene.
type Camera struct {
	X, Y, Z     float64
	FOV         float64 // vertical, degrees
	AspectRatio float64
	Near, Far   float64
}

func (v *Viewport) Camera() Camera {
	aspect := v.AspectRatio()
	return Camera{
		X:           v.worldWidth / 2,
		Y:           -v.worldWidth / 2 / aspect,
		Z:           v.Far(),
		FOV:         v.VerticalFOV(),
		AspectRatio: aspect,
		Near:        v.Near(),
		Far:         v.Far(),
	}
}
