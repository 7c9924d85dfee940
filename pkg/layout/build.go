package layout

import (
	"fmt"
	"strconv"
	"strings"

	"livre3d/pkg/css"
	"livre3d/pkg/html"
)

// PendingKind says what a pending resource turns into once loaded.
type PendingKind int

const (
	// PendingImage becomes an Image leaf of its img element.
	PendingImage PendingKind = iota
	// PendingText becomes words appended to the element.
	PendingText
)

// Pending is a resource an element refers to by its src attribute. It is
// fetched after the tree is built and arrives as new leaves.
type Pending struct {
	Parent NodeID
	Src    string
	Kind   PendingKind
}

// Build turns a parsed document into the tree's root. Markup without a
// body element gets one. Document style blocks are added to the cascade.
func (t *Tree) Build(doc *html.Document) ([]Pending, error) {
	if err := t.addStylesheets(doc); err != nil {
		return nil, err
	}

	b := &builder{tree: t}
	body := doc.Body()
	var root NodeID
	if body.TagName == "body" {
		id, _, err := b.build(body)
		if err != nil {
			return nil, err
		}
		root = id
	} else {
		root = t.CreateElement("body")
		if err := b.buildChildren(root, body); err != nil {
			return nil, err
		}
	}

	if t.root != NoNode {
		if err := t.Release(t.root); err != nil {
			return nil, err
		}
	}
	if err := t.SetRoot(root); err != nil {
		return nil, err
	}
	t.restyle(t.nodes[root])
	t.invalidate(t.nodes[root])
	return b.pending, nil
}

// addStylesheets adds the document's style blocks to the cascade. New
// rules may match anywhere, so an existing tree is restyled as a whole.
func (t *Tree) addStylesheets(doc *html.Document) error {
	for _, src := range doc.Stylesheets {
		sheet, err := css.ParseStylesheet(src)
		if err != nil {
			return fmt.Errorf("stylesheet: %w", err)
		}
		t.styles.AddStylesheet(sheet)
	}
	if root := t.Node(t.root); root != nil && len(doc.Stylesheets) > 0 {
		t.restyle(root)
		t.invalidate(root)
	}
	return nil
}

type builder struct {
	tree    *Tree
	pending []Pending
}

// build converts one markup element. ok is false for text, which the
// caller splits into words.
func (b *builder) build(h *html.Node) (NodeID, bool, error) {
	if h.Type != html.ElementNode {
		return NoNode, false, nil
	}
	t := b.tree
	id := t.CreateElement(h.TagName, h.Attributes...)

	src, _ := h.GetAttribute("src")
	switch h.TagName {
	case "img":
		if src != "" {
			b.pending = append(b.pending, Pending{Parent: id, Src: src, Kind: PendingImage})
		}
	case "mesh":
		mesh, err := parseMesh(h)
		if err != nil {
			err = &Error{Node: id, Tag: h.TagName, Property: "box", Err: err}
			t.release(t.nodes[id])
			return NoNode, false, err
		}
		if _, err := t.AppendContent(id, mesh); err != nil {
			t.release(t.nodes[id])
			return NoNode, false, err
		}
	default:
		if src != "" {
			b.pending = append(b.pending, Pending{Parent: id, Src: src, Kind: PendingText})
		}
	}

	if err := b.buildChildren(id, h); err != nil {
		return NoNode, false, err
	}
	return id, true, nil
}

func (b *builder) buildChildren(parent NodeID, h *html.Node) error {
	t := b.tree
	for _, c := range h.Children {
		if c.Type == html.TextNode {
			if err := t.AppendText(parent, c.Text); err != nil {
				return err
			}
			continue
		}
		id, ok, err := b.build(c)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := t.AppendChild(parent, id); err != nil {
			return err
		}
	}
	return nil
}

// parseMesh reads the bounding box of a mesh element: box holds
// "minX minY minZ maxX maxY maxZ" in world units and scale one factor or
// three.
func parseMesh(h *html.Node) (*Mesh, error) {
	box, _ := h.GetAttribute("box")
	v, err := parseFloats(box)
	if err != nil || len(v) != 6 {
		return nil, fmt.Errorf("%w: box %q", ErrInvalidAttribute, box)
	}
	m := &Mesh{Min: Vec3{v[0], v[1], v[2]}, Max: Vec3{v[3], v[4], v[5]}}

	if scale, ok := h.GetAttribute("scale"); ok {
		s, err := parseFloats(scale)
		switch {
		case err != nil:
			return nil, fmt.Errorf("%w: scale %q", ErrInvalidAttribute, scale)
		case len(s) == 1:
			m.Scale = Vec3{s[0], s[0], s[0]}
		case len(s) == 3:
			m.Scale = Vec3{s[0], s[1], s[2]}
		default:
			return nil, fmt.Errorf("%w: scale %q", ErrInvalidAttribute, scale)
		}
	}
	return m, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
