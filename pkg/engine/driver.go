// Package engine drives layout once per frame. Mutations anywhere flag a
// single pending root; content loaded in the background is posted to an
// inbox and applied on the frame goroutine before the pass runs.
package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"livre3d/pkg/layout"
)

// Arrival is leaf content that finished loading. Exactly one of Text and
// Content is used.
type Arrival struct {
	Parent  layout.NodeID
	Text    string
	Content layout.Content
}

// Resizer is the viewport the driver resizes. *viewport.Viewport
// implements it.
type Resizer interface {
	Resize(width, height float64)
}

// Driver owns the pending layout target of one tree. Request, Resize and
// Tick belong to the frame goroutine; Post may be called from any
// goroutine.
type Driver struct {
	tree     *layout.Tree
	viewport Resizer
	log      *zap.Logger

	pending layout.NodeID
	// good is the geometry after the last successful pass. After a failed
	// pass it is on screen but the caches may be stale, so the next pass
	// starts over from the root.
	good  *layout.Snapshot
	stale bool

	mu    sync.Mutex
	inbox []Arrival
}

// New attaches a driver to tree as its layout requester.
func New(tree *layout.Tree, vp Resizer, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{
		tree:     tree,
		viewport: vp,
		log:      log.Named("engine"),
		pending:  layout.NoNode,
	}
	tree.SetRequester(d)
	return d
}

// Request flags id for the next pass. The latest request wins, except
// that a pending subtree is never narrowed: a request inside it is
// already covered, and two unrelated subtrees escalate to the root.
func (d *Driver) Request(id layout.NodeID) {
	switch {
	case d.pending == layout.NoNode, d.tree.Contains(id, d.pending):
		d.pending = id
	case d.tree.Contains(d.pending, id):
	default:
		d.pending = d.tree.Root()
	}
}

// Pending returns the node the next pass will start from.
func (d *Driver) Pending() (layout.NodeID, bool) {
	return d.pending, d.pending != layout.NoNode
}

// Post queues loaded content for the next tick.
func (d *Driver) Post(a Arrival) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inbox = append(d.inbox, a)
}

// Resize updates the viewport and invalidates the whole tree.
func (d *Driver) Resize(width, height float64) {
	d.viewport.Resize(width, height)
	d.tree.Resize()
}

// Tick applies queued arrivals and runs at most one layout pass. A failed
// pass is logged and the geometry of the last good pass restored, so
// callers may keep rendering. ran reports whether a pass was attempted.
func (d *Driver) Tick(ctx context.Context) (ran bool, err error) {
	d.applyArrivals()

	target, ok := d.Pending()
	if !ok {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.pending = layout.NoNode

	if d.stale {
		target = d.tree.Root()
		d.tree.MarkSubtreeDirty(target)
	}
	if err := d.tree.Layout(target); err != nil {
		if d.good != nil {
			d.tree.Restore(d.good)
		}
		d.stale = true
		fields := []zap.Field{zap.Int("node", int(target)), zap.Error(err)}
		if n := d.tree.Node(target); n != nil {
			fields = append(fields, zap.String("tag", n.Tag()))
		}
		d.log.Error("layout pass failed, keeping previous geometry", fields...)
		return true, err
	}
	d.stale = false
	d.good = d.tree.Snapshot()
	d.log.Debug("layout pass complete", zap.Int("node", int(target)))
	return true, nil
}

func (d *Driver) applyArrivals() {
	d.mu.Lock()
	inbox := d.inbox
	d.inbox = nil
	d.mu.Unlock()

	for _, a := range inbox {
		var err error
		switch {
		case a.Content != nil:
			_, err = d.tree.AppendContent(a.Parent, a.Content)
		default:
			err = d.tree.AppendText(a.Parent, a.Text)
		}
		if err != nil {
			// The parent may have been removed while the content loaded
			d.log.Warn("dropping arrival", zap.Int("parent", int(a.Parent)), zap.Error(err))
		}
	}
}
