package layout

import (
	"livre3d/pkg/css"
	"livre3d/pkg/text"
)

// Content is opaque leaf geometry: a glyph run, an image sprite or a mesh.
// Its size comes from inspection, never from style.
type Content interface {
	// Tag names the leaf for style matching.
	Tag() string
	// Measure returns the intrinsic extent in world units. n is the leaf
	// holding the content; its style and viewport are available.
	Measure(n *Node) (Vec3, error)
}

const (
	TextTag  = "#text"
	ImageTag = "#image"
	MeshTag  = "#mesh"
	WordTag  = "word"
)

// TextRun is one word of text set in the inherited font.
type TextRun struct {
	Text string
}

func (r *TextRun) Tag() string { return TextTag }

// Face returns the font face the run is set in at n.
func (r *TextRun) Face(n *Node) (text.Face, error) {
	size, err := n.FontSize()
	if err != nil {
		return text.Face{}, err
	}
	return text.Face{
		Family: n.GetStyle("font-family"),
		Size:   size,
		Bold:   text.IsBold(n.GetStyle("font-weight")),
	}, nil
}

// Measure returns the glyph box. Depth is the extrusion given by
// font-height.
func (r *TextRun) Measure(n *Node) (Vec3, error) {
	face, err := r.Face(n)
	if err != nil {
		return Vec3{}, err
	}
	w, h := n.tree.measurer.Measure(r.Text, face)
	w2p, err := n.tree.viewport.WorldToPixels()
	if err != nil {
		return Vec3{}, n.errorf("font-size", err)
	}
	depth, _, err := n.Convert("font-height", World)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{w / w2p, h / w2p, depth}, nil
}

// Image is a flat sprite whose pixel size is known once decoded.
type Image struct {
	Src           string
	Width, Height int
}

func (img *Image) Tag() string { return ImageTag }

func (img *Image) Measure(n *Node) (Vec3, error) {
	w2p, err := n.tree.viewport.WorldToPixels()
	if err != nil {
		return Vec3{}, n.errorf("src", err)
	}
	return Vec3{float64(img.Width) / w2p, float64(img.Height) / w2p, 0}, nil
}

// Mesh is imported geometry described by its bounding box in world units.
type Mesh struct {
	Min, Max Vec3
	Scale    Vec3
}

func (m *Mesh) Tag() string { return MeshTag }

func (m *Mesh) Measure(*Node) (Vec3, error) {
	scale := m.Scale
	if scale == (Vec3{}) {
		scale = Vec3{1, 1, 1}
	}
	d := m.Max.Sub(m.Min)
	return Vec3{d.X * scale.X, d.Y * scale.Y, d.Z * scale.Z}, nil
}

// Color returns the fill color for a node: its own color property for
// content, the owner's background-color for a background.
func Color(n *Node) (css.Color, bool) {
	if n.Kind() == KindBackground {
		if p := n.parentNode(); p != nil {
			return css.ParseColor(p.GetStyle("background-color"))
		}
		return css.Color{}, false
	}
	return css.ParseColor(n.GetStyle("color"))
}
