package js

import (
	"github.com/dop251/goja"

	"livre3d/pkg/css"
	"livre3d/pkg/layout"
)

// selectorArg parses the first argument as a selector group, throwing a
// TypeError when it is missing or invalid.
func (ctx *domContext) selectorArg(call goja.FunctionCall, method string) []css.Selector {
	ctx.requireArgs(call, 1, method)
	raw := call.Arguments[0].String()
	sels, ok := css.ParseSelectorGroup(raw)
	if !ok {
		panic(ctx.vm.NewTypeError("%s: '%s' is not a valid selector", method, raw))
	}
	return sels
}

func matcher(sels []css.Selector) func(*layout.Node) bool {
	return func(n *layout.Node) bool {
		for _, sel := range sels {
			if css.MatchesSelector(n, sel) {
				return true
			}
		}
		return false
	}
}

func (e *element) querySelector(call goja.FunctionCall) goja.Value {
	sels := e.ctx.selectorArg(call, "querySelector")
	return e.ctx.firstOrNull(e.ctx.find(e.id, false, true, matcher(sels)))
}

func (e *element) querySelectorAll(call goja.FunctionCall) goja.Value {
	sels := e.ctx.selectorArg(call, "querySelectorAll")
	return e.ctx.elementArray(e.ctx.find(e.id, false, false, matcher(sels)))
}

func (e *element) matches(call goja.FunctionCall) goja.Value {
	match := matcher(e.ctx.selectorArg(call, "matches"))
	return e.ctx.vm.ToValue(match(e.node()))
}

// closest tests the element and then each ancestor.
func (e *element) closest(call goja.FunctionCall) goja.Value {
	match := matcher(e.ctx.selectorArg(call, "closest"))
	for n := e.node(); n != nil; n = e.ctx.tree.Node(n.Parent()) {
		if match(n) {
			return e.ctx.proxy(n.ID())
		}
	}
	return goja.Null()
}
