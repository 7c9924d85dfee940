package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkDirty_RecomputesOnlyThatProperty(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "")
	content := &countingContent{size: Vec3{1, 2, 3}}
	id, err := tree.AppendContent(root, content)
	require.NoError(t, err)
	n := tree.Node(id)
	require.Equal(t, 0, content.calls)

	size, err := n.Size()
	require.NoError(t, err)
	assert.Equal(t, Vec3{1, 2, 3}, size)
	assert.Equal(t, 1, content.calls)

	_, err = n.Size()
	require.NoError(t, err)
	inner, err := n.InnerSize()
	require.NoError(t, err)
	assert.Equal(t, 1, content.calls, "memoized reads must not measure again")

	content.size = Vec3{4, 5, 6}
	require.NoError(t, n.MarkDirty(PropSize))

	again, err := n.InnerSize()
	require.NoError(t, err)
	assert.Equal(t, inner, again, "inner size was not marked dirty")
	assert.Equal(t, 1, content.calls)

	size, err = n.Size()
	require.NoError(t, err)
	assert.Equal(t, Vec3{4, 5, 6}, size)
	assert.Equal(t, 2, content.calls)
}

func TestMarkDirty_UnknownProperty(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "")

	err := tree.Node(root).MarkDirty("volume")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestContentContribution_InvalidKind(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "")

	_, err := tree.Node(root).ContentContribution("average")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestMarkAllDirty_NotRecursive(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "")
	child := addBox(t, tree, root, "")
	addMesh(t, tree, child, 1, 1, 1)
	layoutRoot(t, tree)

	tree.Node(root).MarkAllDirty()
	assert.False(t, tree.Node(root).cache.has(sizeBit))
	assert.True(t, tree.Node(child).cache.has(sizeBit))
}

func TestContentContribution_Aggregation(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		min, max Vec3
	}{
		{
			name:  "nowrap sums the main axis",
			style: "",
			min:   Vec3{30, 30, 5},
			max:   Vec3{30, 30, 5},
		},
		{
			name:  "wrap takes the largest child for min",
			style: "wrap: wrap",
			min:   Vec3{30, 20, 5},
			max:   Vec3{30, 30, 5},
		},
		{
			name:  "row sums x",
			style: "direction: row",
			min:   Vec3{40, 20, 5},
			max:   Vec3{40, 20, 5},
		},
		{
			name:  "explicit and bounded sizes clamp",
			style: "width: 5; min-height: 100; max-depth: 2",
			min:   Vec3{5, 100, 2},
			max:   Vec3{5, 100, 2},
		},
		{
			name:  "spacers are added",
			style: "padding: 1; margin: 0 0 0 0 2 3",
			min:   Vec3{32, 32, 10},
			max:   Vec3{32, 32, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTestTree(t)
			root := newRoot(t, tree, tt.style)
			addMesh(t, tree, root, 10, 20, 5)
			addMesh(t, tree, root, 30, 10, 1)
			n := tree.Node(root)

			minC, err := n.MinContentContribution()
			require.NoError(t, err)
			maxC, err := n.MaxContentContribution()
			require.NoError(t, err)

			if diff := cmp.Diff(tt.min, minC); diff != "" {
				t.Errorf("Min contribution mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.max, maxC); diff != "" {
				t.Errorf("Max contribution mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSize_UnarrangedContainer(t *testing.T) {
	tree := newTestTree(t)
	root := newRoot(t, tree, "margin: 2; padding: 1")
	addMesh(t, tree, root, 10, 20, 5)

	n := tree.Node(root)
	size, err := n.Size()
	require.NoError(t, err)
	outer, err := n.OuterSize()
	require.NoError(t, err)
	inner, err := n.InnerSize()
	require.NoError(t, err)

	assert.Equal(t, Vec3{12, 22, 5}, size)
	assert.Equal(t, Vec3{16, 26, 5}, outer)
	assert.Equal(t, Vec3{10, 20, 5}, inner)

	b, err := n.Boundaries()
	require.NoError(t, err)
	assert.Equal(t, Boundaries{Right: 16, Bottom: 26, Near: 5}, b)
}
