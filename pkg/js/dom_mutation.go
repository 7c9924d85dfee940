package js

import (
	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// detach takes a node out of its parent before it is inserted elsewhere.
func (ctx *domContext) detach(id layout.NodeID) {
	if n := ctx.tree.Node(id); n != nil && n.Parent() != layout.NoNode {
		ctx.throw(ctx.tree.RemoveChild(n.Parent(), id))
	}
}

// nodeArg returns the node passed as argument i, throwing a TypeError
// for anything that is not an element proxy.
func (e *element) nodeArg(call goja.FunctionCall, i int, method string) layout.NodeID {
	e.ctx.requireArgs(call, i+1, method)
	id := e.ctx.nodeOf(call.Arguments[i])
	if id == layout.NoNode {
		panic(e.ctx.vm.NewTypeError("%s: argument %d is not a node", method, i+1))
	}
	return id
}

// insert moves id in front of ref, or to the end when ref is NoNode.
func (e *element) insert(id, ref layout.NodeID) {
	e.ctx.detach(id)
	if ref == layout.NoNode {
		e.ctx.throw(e.ctx.tree.AppendChild(e.id, id))
		return
	}
	e.ctx.throw(e.ctx.tree.InsertBefore(e.id, id, ref))
}

// insertValues inserts nodes and strings before ref. A string becomes
// words, built in a detached holder first.
func (e *element) insertValues(args []goja.Value, ref layout.NodeID) {
	tree := e.ctx.tree
	for _, v := range args {
		if id := e.ctx.nodeOf(v); id != layout.NoNode {
			if id != ref {
				e.insert(id, ref)
			}
			continue
		}
		holder := tree.CreateElement("span")
		e.ctx.throw(tree.AppendText(holder, v.String()))
		for _, w := range tree.Node(holder).Children() {
			e.ctx.throw(tree.RemoveChild(holder, w))
			e.insert(w, ref)
		}
		e.ctx.throw(tree.Release(holder))
	}
}

func (e *element) appendChild(call goja.FunctionCall) goja.Value {
	child := e.nodeArg(call, 0, "appendChild")
	e.insert(child, layout.NoNode)
	return e.ctx.proxy(child)
}

// removeChild keeps the removed subtree alive so a script can insert it
// again.
func (e *element) removeChild(call goja.FunctionCall) goja.Value {
	child := e.nodeArg(call, 0, "removeChild")
	e.ctx.throw(e.ctx.tree.RemoveChild(e.id, child))
	return e.ctx.proxy(child)
}

// insertBefore appends when the reference is null or undefined.
func (e *element) insertBefore(call goja.FunctionCall) goja.Value {
	child := e.nodeArg(call, 0, "insertBefore")
	ref := layout.NoNode
	if r := call.Argument(1); !goja.IsNull(r) && !goja.IsUndefined(r) {
		ref = e.nodeArg(call, 1, "insertBefore")
	}
	if ref != child {
		e.insert(child, ref)
	}
	return e.ctx.proxy(child)
}

func (e *element) remove(goja.FunctionCall) goja.Value {
	if p := e.node().Parent(); p != layout.NoNode {
		e.ctx.throw(e.ctx.tree.RemoveChild(p, e.id))
	}
	return goja.Undefined()
}

func (e *element) append(call goja.FunctionCall) goja.Value {
	e.insertValues(call.Arguments, layout.NoNode)
	return goja.Undefined()
}

func (e *element) prepend(call goja.FunctionCall) goja.Value {
	ref := layout.NoNode
	if c := e.node().Children(); len(c) > 0 {
		ref = c[0]
	}
	e.insertValues(call.Arguments, ref)
	return goja.Undefined()
}

// replaceChildren detaches the incoming nodes first so clearing does not
// release them.
func (e *element) replaceChildren(call goja.FunctionCall) goja.Value {
	for _, v := range call.Arguments {
		if id := e.ctx.nodeOf(v); id != layout.NoNode {
			e.ctx.detach(id)
		}
	}
	e.clear()
	e.insertValues(call.Arguments, layout.NoNode)
	return goja.Undefined()
}

// clear releases every child.
func (e *element) clear() {
	tree := e.ctx.tree
	for _, c := range e.node().Children() {
		e.ctx.forget(c)
		e.ctx.throw(tree.RemoveChild(e.id, c))
		e.ctx.throw(tree.Release(c))
	}
}

// setInnerHTML replaces the children with a parsed fragment. Resources
// the fragment refers to are queued for the loader.
func (e *element) setInnerHTML(markup string) {
	e.clear()
	pending, err := e.ctx.tree.Import(markup, e.id)
	e.ctx.throw(err)
	e.ctx.pending = append(e.ctx.pending, pending...)
}

// replaceText swaps the children for the words of s.
func (e *element) replaceText(s string) {
	for _, c := range e.node().Children() {
		e.ctx.forget(c)
	}
	e.ctx.throw(e.ctx.tree.SetText(e.id, s))
}
