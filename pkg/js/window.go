package js

import (
	"github.com/dop251/goja"
)

// Resizer changes the window size. *engine.Driver implements it.
type Resizer interface {
	Resize(width, height float64)
}

// registerWindow sets up the global `window` object: the window size in
// pixels and, when a resizer is configured, window.resize(w, h).
func registerWindow(ctx *domContext, resizer Resizer) {
	vm := ctx.vm
	win := vm.NewObject()
	vp := ctx.tree.Viewport()

	width := func() goja.Value { return vm.ToValue(vp.Width()) }
	height := func() goja.Value { return vm.ToValue(vp.Height()) }
	win.DefineAccessorProperty("innerWidth", vm.ToValue(width), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	win.DefineAccessorProperty("innerHeight", vm.ToValue(height), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	win.Set("resize", func(call goja.FunctionCall) goja.Value {
		if resizer == nil {
			panic(vm.NewTypeError("window.resize is not available"))
		}
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'resize': 2 arguments required"))
		}
		w, h := call.Arguments[0].ToFloat(), call.Arguments[1].ToFloat()
		if w <= 0 || h <= 0 {
			panic(vm.NewTypeError("Failed to execute 'resize': size must be positive"))
		}
		resizer.Resize(w, h)
		return goja.Undefined()
	})

	vm.Set("window", win)
}
