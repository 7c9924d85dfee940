package js

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// tokenList backs element.classList. It reads the class attribute on
// every access and writes back through the tree, so a change restyles the
// element's subtree like setAttribute does.
type tokenList struct {
	ctx     *domContext
	id      layout.NodeID
	methods map[string]func(goja.FunctionCall) goja.Value
}

var tokenListKeys = []string{"length", "value", "add", "remove", "toggle", "contains", "replace", "item", "toString"}

func newTokenList(ctx *domContext, id layout.NodeID) goja.Value {
	tl := &tokenList{ctx: ctx, id: id}
	tl.methods = map[string]func(goja.FunctionCall) goja.Value{
		"add":      tl.add,
		"remove":   tl.remove,
		"toggle":   tl.toggle,
		"contains": tl.contains,
		"replace":  tl.replace,
		"item":     tl.item,
		"toString": func(goja.FunctionCall) goja.Value { return ctx.vm.ToValue(tl.value()) },
	}
	return ctx.vm.NewDynamicObject(tl)
}

func (tl *tokenList) tokens() []string {
	n := tl.ctx.tree.Node(tl.id)
	if n == nil {
		return nil
	}
	v, _ := n.Attribute("class")
	return strings.Fields(v)
}

func (tl *tokenList) value() string { return strings.Join(tl.tokens(), " ") }

func (tl *tokenList) store(tokens []string) {
	tl.ctx.throw(tl.ctx.tree.SetAttribute(tl.id, "class", strings.Join(tokens, " ")))
}

func (tl *tokenList) add(call goja.FunctionCall) goja.Value {
	tokens := tl.tokens()
	for _, arg := range call.Arguments {
		if s := arg.String(); !slices.Contains(tokens, s) {
			tokens = append(tokens, s)
		}
	}
	tl.store(tokens)
	return goja.Undefined()
}

func (tl *tokenList) remove(call goja.FunctionCall) goja.Value {
	tokens := tl.tokens()
	for _, arg := range call.Arguments {
		s := arg.String()
		tokens = slices.DeleteFunc(tokens, func(t string) bool { return t == s })
	}
	tl.store(tokens)
	return goja.Undefined()
}

// toggle flips a token, or forces it on or off with a second argument.
// It returns whether the token is present afterwards.
func (tl *tokenList) toggle(call goja.FunctionCall) goja.Value {
	vm := tl.ctx.vm
	if len(call.Arguments) == 0 {
		panic(vm.NewTypeError("classList.toggle: 1 argument required"))
	}
	s := call.Arguments[0].String()
	tokens := tl.tokens()
	has := slices.Contains(tokens, s)

	want := !has
	if len(call.Arguments) > 1 {
		want = call.Arguments[1].ToBoolean()
	}
	switch {
	case want && !has:
		tokens = append(tokens, s)
	case !want && has:
		tokens = slices.DeleteFunc(tokens, func(t string) bool { return t == s })
	}
	tl.store(tokens)
	return vm.ToValue(want)
}

func (tl *tokenList) contains(call goja.FunctionCall) goja.Value {
	found := len(call.Arguments) > 0 && slices.Contains(tl.tokens(), call.Arguments[0].String())
	return tl.ctx.vm.ToValue(found)
}

func (tl *tokenList) replace(call goja.FunctionCall) goja.Value {
	vm := tl.ctx.vm
	if len(call.Arguments) < 2 {
		panic(vm.NewTypeError("classList.replace: 2 arguments required"))
	}
	tokens := tl.tokens()
	i := slices.Index(tokens, call.Arguments[0].String())
	if i < 0 {
		return vm.ToValue(false)
	}
	tokens[i] = call.Arguments[1].String()
	tl.store(tokens)
	return vm.ToValue(true)
}

func (tl *tokenList) item(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) == 0 {
		return goja.Null()
	}
	i := int(call.Arguments[0].ToInteger())
	tokens := tl.tokens()
	if i < 0 || i >= len(tokens) {
		return goja.Null()
	}
	return tl.ctx.vm.ToValue(tokens[i])
}

func (tl *tokenList) Get(key string) goja.Value {
	switch key {
	case "length":
		return tl.ctx.vm.ToValue(len(tl.tokens()))
	case "value":
		return tl.ctx.vm.ToValue(tl.value())
	}
	if m, ok := tl.methods[key]; ok {
		return tl.ctx.vm.ToValue(m)
	}
	if i, err := strconv.Atoi(key); err == nil {
		if tokens := tl.tokens(); i >= 0 && i < len(tokens) {
			return tl.ctx.vm.ToValue(tokens[i])
		}
	}
	return goja.Undefined()
}

func (tl *tokenList) Set(key string, val goja.Value) bool {
	if key != "value" {
		return false
	}
	tl.store(strings.Fields(val.String()))
	return true
}

func (tl *tokenList) Has(key string) bool {
	if slices.Contains(tokenListKeys, key) {
		return true
	}
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && i < len(tl.tokens())
}

func (tl *tokenList) Delete(string) bool { return false }

func (tl *tokenList) Keys() []string { return tokenListKeys }
