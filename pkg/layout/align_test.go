package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignChildren_Stretch(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50")
	child := addBox(t, tree, root, "align-self: stretch")
	leaf := addMesh(t, tree, child, 10, 30, 1)

	r := tree.Node(root)
	r.SetAvailableSpace(Vec3{200, 100, 50})
	require.NoError(t, r.Arrange())
	assert.Equal(t, 30.0, outerSize(t, tree.Node(child)).Y, "natural size before alignment")

	require.NoError(t, r.AlignChildren())
	assert.Equal(t, 50.0, outerSize(t, tree.Node(child)).Y)
	assert.Equal(t, 30.0, outerSize(t, tree.Node(leaf)).Y, "content is never stretched")
}

func TestAlignChildren_StretchSurvivesRelayout(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50; align-items: stretch")
	child := addBox(t, tree, root, "")
	addMesh(t, tree, child, 10, 30, 1)

	layoutRoot(t, tree)
	layoutRoot(t, tree)
	assert.Equal(t, 50.0, outerSize(t, tree.Node(child)).Y)
}

func TestAlignChildren_StretchIgnoresContent(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50; align-items: stretch")
	leaf := addMesh(t, tree, root, 10, 30, 1)
	layoutRoot(t, tree)

	n := tree.Node(leaf)
	assert.Equal(t, 30.0, outerSize(t, n).Y)
	assert.Equal(t, 0.0, flowOffset(t, n, Y))
}

func TestAlignChildren_CenterAndEnd(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50; align-items: center")
	centered := addMesh(t, tree, root, 10, 30, 1)
	end := addBox(t, tree, root, "align-self: end")
	addMesh(t, tree, end, 10, 30, 1)
	layoutRoot(t, tree)

	if got := flowOffset(t, tree.Node(centered), Y); got != 10 {
		t.Errorf("Expected centered child 10 below the top, got %v", got)
	}
	if got := flowOffset(t, tree.Node(end), Y); got != 20 {
		t.Errorf("Expected end-aligned child 20 below the top, got %v", got)
	}
	// y grows upward, so moving down the box lowers the coordinate
	assert.Equal(t, -25.0, tree.Node(centered).Position().Y)
}

func TestAlignChildren_CenterOnX(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "width: 100; align-items: center")
	leaf := addMesh(t, tree, root, 10, 10, 10)
	layoutRoot(t, tree)

	assert.Equal(t, 45.0, flowOffset(t, tree.Node(leaf), X))
	assert.Equal(t, 50.0, tree.Node(leaf).Position().X)
}

func TestAlignChildren_Idempotent(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50; align-items: end")
	leaf := addMesh(t, tree, root, 10, 30, 1)
	layoutRoot(t, tree)

	before := tree.Node(leaf).Position()
	require.NoError(t, tree.Node(root).AlignChildren())
	require.NoError(t, tree.Node(root).AlignChildren())
	assert.Equal(t, before, tree.Node(leaf).Position())
}

func TestAlignChildren_UnknownValueFallsBackToStart(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "direction: row; height: 50; align-items: middle")
	leaf := addMesh(t, tree, root, 10, 30, 1)
	layoutRoot(t, tree)

	assert.Equal(t, 0.0, flowOffset(t, tree.Node(leaf), Y))
}
