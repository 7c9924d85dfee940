package layout

import "go.uber.org/zap"

// Resize prepares the tree for a new viewport: every leaf is measured
// again, every cache is cleared and backgrounds are recreated. The root
// is then requested for a full pass.
func (t *Tree) Resize() {
	root := t.Node(t.root)
	if root == nil {
		return
	}
	root.markSubtreeDirty()
	t.Walk(t.root, func(n *Node) bool {
		if n.kind == KindBackground {
			return true
		}
		if n.background != NoNode {
			bg := t.nodes[n.background]
			n.background = NoNode
			bg.parent = NoNode
			t.release(bg)
		}
		t.syncBackground(n)
		return true
	})
	t.log.Debug("viewport resized", zap.Float64("width", t.viewport.Width()), zap.Float64("height", t.viewport.Height()))
	t.requester.Request(t.root)
}
