package layout

// Snapshot is the geometry of every node at one point in time. A failed
// pass restores it so the previous frame stays consistent.
type Snapshot struct {
	entries []snapshotEntry
}

type snapshotEntry struct {
	node *Node
	geometry
}

// Snapshot records the geometry of all live nodes.
func (t *Tree) Snapshot() *Snapshot {
	s := &Snapshot{entries: make([]snapshotEntry, 0, t.Len())}
	for _, n := range t.nodes {
		s.entries = append(s.entries, snapshotEntry{node: n, geometry: n.geometry})
	}
	return s
}

// Restore puts back the recorded geometry. Nodes released since the
// snapshot are skipped.
func (t *Tree) Restore(s *Snapshot) {
	for _, e := range s.entries {
		if t.nodes[e.node.id] == e.node {
			e.node.geometry = e.geometry
		}
	}
}
