package js

import (
	"slices"
	"strings"

	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// domContext is the state the DOM bindings of one tree share. Each node
// gets a single proxy object so === works across lookups.
type domContext struct {
	vm      *goja.Runtime
	tree    *layout.Tree
	proxies map[layout.NodeID]*goja.Object
	nodes   map[*goja.Object]layout.NodeID
	pending []layout.Pending
}

func newDOMContext(vm *goja.Runtime, tree *layout.Tree) *domContext {
	return &domContext{
		vm:      vm,
		tree:    tree,
		proxies: make(map[layout.NodeID]*goja.Object),
		nodes:   make(map[*goja.Object]layout.NodeID),
	}
}

// registerDocument installs the global document. body and documentElement
// are both the tree root; searches from the document include it.
func registerDocument(ctx *domContext) {
	vm := ctx.vm
	doc := vm.NewObject()
	root := ctx.tree.Root

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"getElementById": func(call goja.FunctionCall) goja.Value {
			id, ok := stringArg(call, 0)
			if !ok {
				return goja.Null()
			}
			found := ctx.find(root(), true, true, func(n *layout.Node) bool {
				v, has := n.Attribute("id")
				return has && v == id
			})
			return ctx.firstOrNull(found)
		},
		"getElementsByTagName": func(call goja.FunctionCall) goja.Value {
			return ctx.elementArray(ctx.byTagName(root(), call, true))
		},
		"getElementsByClassName": func(call goja.FunctionCall) goja.Value {
			return ctx.elementArray(ctx.byClassName(root(), call, true))
		},
		"createElement": func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "document.createElement")
			return ctx.proxy(ctx.tree.CreateElement(strings.ToLower(call.Arguments[0].String())))
		},
		"querySelector": func(call goja.FunctionCall) goja.Value {
			sels := ctx.selectorArg(call, "document.querySelector")
			return ctx.firstOrNull(ctx.find(root(), true, true, matcher(sels)))
		},
		"querySelectorAll": func(call goja.FunctionCall) goja.Value {
			sels := ctx.selectorArg(call, "document.querySelectorAll")
			return ctx.elementArray(ctx.find(root(), true, false, matcher(sels)))
		},
	}
	for name, fn := range funcs {
		_ = doc.Set(name, fn)
	}

	rootGetter := vm.ToValue(func() goja.Value { return ctx.proxyOrNull(root()) })
	for _, name := range []string{"body", "documentElement"} {
		_ = doc.DefineAccessorProperty(name, rootGetter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	_ = vm.Set("document", doc)
}

// find lists the elements below root that satisfy match, in document
// order. Words and content leaves are skipped. With first set it stops
// at the first hit.
func (ctx *domContext) find(root layout.NodeID, includeRoot, first bool, match func(*layout.Node) bool) []layout.NodeID {
	var out []layout.NodeID
	ctx.tree.Walk(root, func(n *layout.Node) bool {
		if first && len(out) > 0 {
			return false
		}
		if n.Kind() != layout.KindContainer {
			return true
		}
		if (n.ID() != root || includeRoot) && match(n) {
			out = append(out, n.ID())
		}
		return !(first && len(out) > 0)
	})
	return out
}

func (ctx *domContext) byTagName(root layout.NodeID, call goja.FunctionCall, includeRoot bool) []layout.NodeID {
	tag, ok := stringArg(call, 0)
	if !ok {
		return nil
	}
	tag = strings.ToLower(tag)
	return ctx.find(root, includeRoot, false, func(n *layout.Node) bool { return n.Tag() == tag })
}

func (ctx *domContext) byClassName(root layout.NodeID, call goja.FunctionCall, includeRoot bool) []layout.NodeID {
	cls, ok := stringArg(call, 0)
	if !ok {
		return nil
	}
	return ctx.find(root, includeRoot, false, func(n *layout.Node) bool {
		v, _ := n.Attribute("class")
		return slices.Contains(strings.Fields(v), cls)
	})
}

func (ctx *domContext) elementArray(ids []layout.NodeID) goja.Value {
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = ctx.proxy(id)
	}
	return ctx.vm.NewArray(vals...)
}

// proxy returns the script object of a node, creating it on first use.
func (ctx *domContext) proxy(id layout.NodeID) *goja.Object {
	if obj, ok := ctx.proxies[id]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&element{ctx: ctx, id: id})
	ctx.proxies[id] = obj
	ctx.nodes[obj] = id
	return obj
}

func (ctx *domContext) proxyOrNull(id layout.NodeID) goja.Value {
	if id == layout.NoNode || ctx.tree.Node(id) == nil {
		return goja.Null()
	}
	return ctx.proxy(id)
}

func (ctx *domContext) firstOrNull(ids []layout.NodeID) goja.Value {
	if len(ids) == 0 {
		return goja.Null()
	}
	return ctx.proxy(ids[0])
}

// nodeOf returns the node behind a proxy, or NoNode for any other value.
func (ctx *domContext) nodeOf(v goja.Value) layout.NodeID {
	if obj, ok := v.(*goja.Object); ok {
		if id, ok := ctx.nodes[obj]; ok {
			return id
		}
	}
	return layout.NoNode
}

// forget drops the proxies of a subtree about to be released. Scripts may
// still hold them; they then behave as removed elements.
func (ctx *domContext) forget(id layout.NodeID) {
	ctx.tree.Walk(id, func(n *layout.Node) bool {
		if obj, ok := ctx.proxies[n.ID()]; ok {
			delete(ctx.nodes, obj)
			delete(ctx.proxies, n.ID())
		}
		return true
	})
}

// throw raises err as a script exception.
func (ctx *domContext) throw(err error) {
	if err != nil {
		panic(ctx.vm.NewGoError(err))
	}
}

func (ctx *domContext) requireArgs(call goja.FunctionCall, n int, method string) {
	if len(call.Arguments) < n {
		panic(ctx.vm.NewTypeError("%s: %d argument(s) required, got %d", method, n, len(call.Arguments)))
	}
}

func stringArg(call goja.FunctionCall, i int) (string, bool) {
	if i >= len(call.Arguments) {
		return "", false
	}
	return call.Arguments[i].String(), true
}
