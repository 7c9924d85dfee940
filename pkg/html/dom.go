package html

import (
	"strings"
)

// Attribute is one name/value pair. Document order is preserved.
type Attribute struct {
	Name  string
	Value string
}

type Node struct {
	Type       NodeType
	TagName    string
	Attributes []Attribute
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document is a parsed HT3D page. Root is a synthetic "document" element;
// Stylesheets and Scripts hold the raw contents of <style> and <script>
// blocks in source order.
type Document struct {
	Root        *Node
	Stylesheets []string
	Scripts     []string
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// Body returns the first <body> element, or the root when the markup has
// none.
func (d *Document) Body() *Node {
	if body := d.Root.Find("body"); body != nil {
		return body
	}
	return d.Root
}

func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute replaces the value of name, appending it if absent.
func (n *Node) SetAttribute(name, value string) {
	n.Attributes = setAttribute(n.Attributes, name, value)
}

// Classes returns the whitespace separated values of the class attribute.
func (n *Node) Classes() []string {
	v, _ := n.GetAttribute("class")
	return strings.Fields(v)
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// TextContent concatenates the text of every descendant text node,
// separated by single spaces.
func (n *Node) TextContent() string {
	var parts []string
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur.Type == TextNode {
			parts = append(parts, cur.Text)
			return
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// Find returns the first element in document order with the given tag.
func (n *Node) Find(tag string) *Node {
	if n.Type == ElementNode && n.TagName == tag {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

func setAttribute(attrs []Attribute, name, value string) []Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attribute{Name: name, Value: value})
}
