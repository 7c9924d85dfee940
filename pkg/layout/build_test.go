package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livre3d/pkg/html"
)

func buildTree(t *testing.T, tree *Tree, markup string) []Pending {
	t.Helper()
	doc, err := html.Parse(markup)
	require.NoError(t, err)
	pending, err := tree.Build(doc)
	require.NoError(t, err)
	return pending
}

func TestBuild_Document(t *testing.T) {
	rec := &recordingRequester{}
	tree := newTestTree(t, WithRequester(rec))
	images := buildTree(t, tree, `<style>p { padding: 2 }</style>
<body>
  <p id="intro">hello world</p>
  <img src="a.png">
  <mesh box="0 0 0 1 2 3" scale="2">
</body>`)

	root := tree.Node(tree.Root())
	require.NotNil(t, root)
	assert.Equal(t, "body", root.Tag())
	assert.NotEqual(t, NoNode, root.Background(), "the user agent sheet paints the body")
	assert.Equal(t, tree.Root(), rec.last())

	children := root.Children()
	require.Len(t, children, 3)

	p := tree.Node(children[0])
	assert.Equal(t, "p", p.Tag())
	id, _ := p.Attribute("id")
	assert.Equal(t, "intro", id)
	require.Len(t, p.Children(), 2)
	padding, _, err := p.Convert("padding-top", Pixels)
	require.NoError(t, err)
	assert.Equal(t, 2.0, padding)

	require.Len(t, images, 1)
	assert.Equal(t, Pending{Parent: children[1], Src: "a.png", Kind: PendingImage}, images[0])
	assert.Empty(t, tree.Node(children[1]).Children(), "pictures arrive later")

	mesh := tree.Node(children[2])
	require.Len(t, mesh.Children(), 1)
	leaf := tree.Node(mesh.Children()[0])
	assert.Equal(t, KindContent, leaf.Kind())
	size, err := leaf.Size()
	require.NoError(t, err)
	assert.Equal(t, Vec3{2, 4, 6}, size)

	layoutRoot(t, tree)
	outer := outerSize(t, p)
	assert.Equal(t, 200.0, outer.X, "paragraphs stretch across the body")
}

func TestBuild_TextSource(t *testing.T) {
	tree := newTestTree(t)
	pending := buildTree(t, tree, `<body><p src="notes.txt"></p></body>`)

	require.Len(t, pending, 1)
	assert.Equal(t, PendingText, pending[0].Kind)
	assert.Equal(t, "notes.txt", pending[0].Src)
}

func TestBuild_WithoutBody(t *testing.T) {
	tree := newTestTree(t)
	buildTree(t, tree, `<p>hi</p> loose words`)

	root := tree.Node(tree.Root())
	require.NotNil(t, root)
	assert.Equal(t, "body", root.Tag())

	var tags []string
	for _, id := range root.Children() {
		tags = append(tags, tree.Node(id).Tag())
	}
	assert.Equal(t, []string{"p", WordTag, WordTag}, tags)
}

func TestBuild_ReplacesPreviousRoot(t *testing.T) {
	tree := newTestTree(t)
	buildTree(t, tree, `<body><p>one two three</p></body>`)
	first := tree.Len()

	buildTree(t, tree, `<body><p>one two three</p></body>`)
	assert.Equal(t, first, tree.Len())
}

func TestBuild_InvalidMesh(t *testing.T) {
	tree := newTestTree(t)
	doc, err := html.Parse(`<body><mesh box="1 2"></body>`)
	require.NoError(t, err)

	_, err = tree.Build(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAttribute))
}

func TestImport_InvalidMeshReleasesContainer(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "")
	before := tree.Len()

	_, err := tree.Import(`<mesh box="1 2 3"></mesh>`, root)
	require.ErrorIs(t, err, ErrInvalidAttribute)

	var layoutErr *Error
	require.True(t, errors.As(err, &layoutErr))
	assert.Equal(t, "mesh", layoutErr.Tag)
	assert.NotEqual(t, NoNode, layoutErr.Node)
	assert.Nil(t, tree.Node(layoutErr.Node), "the failed container is released")
	assert.Equal(t, before, tree.Len())
	assert.Empty(t, tree.Node(root).Children())
}

func TestParseMesh(t *testing.T) {
	tests := []struct {
		attrs []html.Attribute
		want  Vec3
		ok    bool
	}{
		{[]html.Attribute{{Name: "box", Value: "0 0 0 1 1 1"}}, Vec3{1, 1, 1}, true},
		{[]html.Attribute{{Name: "box", Value: "-1 -1 -1 1 1 1"}, {Name: "scale", Value: "1 2 3"}}, Vec3{2, 4, 6}, true},
		{[]html.Attribute{{Name: "box", Value: "0 0 0 1 1 1"}, {Name: "scale", Value: "1 2"}}, Vec3{}, false},
		{[]html.Attribute{{Name: "box", Value: "0 0 0 a b c"}}, Vec3{}, false},
		{nil, Vec3{}, false},
	}
	for i, tt := range tests {
		mesh, err := parseMesh(&html.Node{Type: html.ElementNode, TagName: "mesh", Attributes: tt.attrs})
		if !tt.ok {
			if err == nil {
				t.Errorf("Case %d: expected an error", i)
			}
			continue
		}
		require.NoError(t, err)
		got, err := mesh.Measure(nil)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("Case %d: expected %v, got %v", i, tt.want, got)
		}
	}
}

func TestImport(t *testing.T) {
	rec := &recordingRequester{}
	tree := newTestTree(t, WithRequester(rec))
	buildTree(t, tree, `<body></body>`)
	root := tree.Root()

	pending, err := tree.Import(`<style>.x { width: 30 }</style><p class="x">a b</p><img src="b.png"> tail`, root)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b.png", pending[0].Src)

	children := tree.Node(root).Children()
	require.Len(t, children, 3)
	p := tree.Node(children[0])
	width, ok, err := p.Convert("width", World)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30.0, width)
	assert.Equal(t, WordTag, tree.Node(children[2]).Tag())
	assert.Equal(t, root, rec.last())
}
