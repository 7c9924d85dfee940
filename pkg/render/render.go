// Package render rasterizes a laid out tree with an orthographic camera:
// world x and y map straight to pixels and z only decides paint order.
package render

import (
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"livre3d/pkg/css"
	"livre3d/pkg/images"
	"livre3d/pkg/layout"
	"livre3d/pkg/text"
)

type Renderer struct {
	context  *gg.Context
	measurer *text.Measurer
	images   *images.Cache
	log      *zap.Logger
}

type Option func(*Renderer)

func WithMeasurer(m *text.Measurer) Option {
	return func(r *Renderer) { r.measurer = m }
}

func WithImageCache(c *images.Cache) Option {
	return func(r *Renderer) { r.images = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		context: gg.NewContext(width, height),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.measurer == nil {
		r.measurer = text.NewMeasurer(text.DefaultFontConfig())
	}
	if r.images == nil {
		r.images = images.NewCache()
	}
	return r
}

// item is a leaf ready to paint: its center and extent in world units.
type item struct {
	node   *layout.Node
	center layout.Vec3
	size   layout.Vec3
	order  int
}

// Render clears the canvas and paints every background and content leaf
// of the tree, farthest first.
func (r *Renderer) Render(t *layout.Tree) error {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	if t.Root() == layout.NoNode {
		return nil
	}
	w2p, err := t.Viewport().WorldToPixels()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	items, err := r.collect(t, t.Root(), layout.Vec3{}, nil)
	if err != nil {
		return err
	}
	sortByDepth(items)

	for _, it := range items {
		r.draw(it, w2p)
	}
	return nil
}

// collect flattens the subtree of id, composing anchors into world
// positions. Backgrounds come right after their owner.
func (r *Renderer) collect(t *layout.Tree, id layout.NodeID, base layout.Vec3, items []item) ([]item, error) {
	n := t.Node(id)
	anchor := base.Add(n.Position())

	if n.Kind() != layout.KindContainer {
		size, err := n.Size()
		if err != nil {
			return nil, err
		}
		b, err := n.Boundaries()
		if err != nil {
			return nil, err
		}
		center := layout.Vec3{
			X: anchor.X + (b.Right-b.Left)/2,
			Y: anchor.Y - (b.Bottom-b.Top)/2,
			Z: anchor.Z + (b.Near-b.Far)/2,
		}
		return append(items, item{node: n, center: center, size: size, order: len(items)}), nil
	}

	var err error
	if bg := n.Background(); bg != layout.NoNode {
		if items, err = r.collect(t, bg, anchor, items); err != nil {
			return nil, err
		}
	}
	for _, c := range n.Children() {
		if items, err = r.collect(t, c, anchor, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// sortByDepth orders items far to near, keeping tree order on ties.
func sortByDepth(items []item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].center.Z < items[j].center.Z
	})
}

func (r *Renderer) draw(it item, w2p float64) {
	cx, cy := it.center.X*w2p, -it.center.Y*w2p
	w, h := it.size.X*w2p, it.size.Y*w2p

	switch c := it.node.Content().(type) {
	case nil:
		r.drawBackground(it.node, cx, cy, w, h)
	case *layout.TextRun:
		r.drawText(it.node, c, cx, cy, w2p)
	case *layout.Image:
		r.drawImage(c, cx, cy, w, h)
	case *layout.Mesh:
		r.drawMesh(it.node, cx, cy, w, h)
	}
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func (r *Renderer) drawBackground(n *layout.Node, cx, cy, w, h float64) {
	color, ok := layout.Color(n)
	if !ok || color.A <= 0 || w <= 0 || h <= 0 {
		return
	}
	r.setColor(color)
	r.context.DrawRectangle(cx-w/2, cy-h/2, w, h)
	r.context.Fill()
}

func (r *Renderer) drawText(n *layout.Node, run *layout.TextRun, cx, cy, w2p float64) {
	face, err := run.Face(n)
	if err != nil {
		r.log.Debug("skipping text", zap.String("text", run.Text), zap.Error(err))
		return
	}
	ff, err := r.measurer.LoadFace(face)
	if err != nil {
		r.log.Debug("skipping text", zap.String("text", run.Text), zap.Error(err))
		return
	}
	color, ok := layout.Color(n)
	if !ok {
		color = css.Color{A: 1}
	}
	r.setColor(color)
	r.context.SetFontFace(ff)
	r.context.DrawStringAnchored(run.Text, cx, cy, 0.5, 0.35)
}

func (r *Renderer) drawImage(img *layout.Image, cx, cy, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	decoded, err := r.images.Load(img.Src)
	if err != nil {
		// Broken image placeholder
		r.context.SetRGB(0.9, 0.9, 0.9)
		r.context.DrawRectangle(cx-w/2, cy-h/2, w, h)
		r.context.Fill()

		r.context.SetRGB(0.5, 0.5, 0.5)
		r.context.SetLineWidth(2)
		r.context.DrawLine(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
		r.context.DrawLine(cx+w/2, cy-h/2, cx-w/2, cy+h/2)
		r.context.Stroke()
		return
	}

	bounds := decoded.Bounds()
	r.context.Push()
	r.context.Translate(cx, cy)
	r.context.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	r.context.DrawImageAnchored(decoded, 0, 0, 0.5, 0.5)
	r.context.Pop()
}

// drawMesh paints the front face of the bounding box as an outline.
func (r *Renderer) drawMesh(n *layout.Node, cx, cy, w, h float64) {
	color, ok := layout.Color(n)
	if !ok {
		color = css.Color{A: 1}
	}
	r.setColor(color)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(cx-w/2, cy-h/2, w, h)
	r.context.Stroke()
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}
