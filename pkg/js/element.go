package js

import (
	"maps"
	"slices"
	"strings"

	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// element is the script object of one layout node. It holds no state of
// its own; every access goes to the tree.
type element struct {
	ctx *domContext
	id  layout.NodeID
}

type (
	elementGetter func(e *element) goja.Value
	elementSetter func(e *element, v goja.Value)
	elementMethod func(e *element, call goja.FunctionCall) goja.Value
)

var elementGetters = map[string]elementGetter{
	"nodeType": func(e *element) goja.Value {
		if e.node().Kind() == layout.KindContent {
			return e.ctx.vm.ToValue(3)
		}
		return e.ctx.vm.ToValue(1)
	},
	"tagName":     (*element).tagName,
	"nodeName":    (*element).tagName,
	"id":          attributeGetter("id"),
	"className":   attributeGetter("class"),
	"textContent": func(e *element) goja.Value { return e.ctx.vm.ToValue(e.textContent()) },

	"children":          func(e *element) goja.Value { return e.ctx.elementArray(e.children()) },
	"childNodes":        func(e *element) goja.Value { return e.ctx.elementArray(e.node().Children()) },
	"childElementCount": func(e *element) goja.Value { return e.ctx.vm.ToValue(len(e.children())) },
	"parentElement":     (*element).parent,
	"parentNode":        (*element).parent,

	"firstElementChild":      (*element).firstElementChild,
	"lastElementChild":       (*element).lastElementChild,
	"nextElementSibling":     (*element).nextElementSibling,
	"previousElementSibling": (*element).previousElementSibling,

	"style":     func(e *element) goja.Value { return newStyleDeclaration(e.ctx, e.id) },
	"classList": func(e *element) goja.Value { return newTokenList(e.ctx, e.id) },
}

var elementSetters = map[string]elementSetter{
	"textContent": func(e *element, v goja.Value) { e.replaceText(v.String()) },
	"innerHTML":   func(e *element, v goja.Value) { e.setInnerHTML(v.String()) },
	"id":          attributeSetter("id"),
	"className":   attributeSetter("class"),
}

var elementMethods = map[string]elementMethod{
	"getAttribute":    (*element).getAttribute,
	"setAttribute":    (*element).setAttribute,
	"hasAttribute":    (*element).hasAttribute,
	"removeAttribute": (*element).removeAttribute,

	"appendChild":     (*element).appendChild,
	"removeChild":     (*element).removeChild,
	"insertBefore":    (*element).insertBefore,
	"remove":          (*element).remove,
	"append":          (*element).append,
	"prepend":         (*element).prepend,
	"replaceChildren": (*element).replaceChildren,
	"contains":        (*element).contains,
	"hasChildNodes": func(e *element, _ goja.FunctionCall) goja.Value {
		return e.ctx.vm.ToValue(len(e.node().Children()) > 0)
	},

	"querySelector":    (*element).querySelector,
	"querySelectorAll": (*element).querySelectorAll,
	"matches":          (*element).matches,
	"closest":          (*element).closest,
	"getElementsByTagName": func(e *element, call goja.FunctionCall) goja.Value {
		return e.ctx.elementArray(e.ctx.byTagName(e.id, call, false))
	},
	"getElementsByClassName": func(e *element, call goja.FunctionCall) goja.Value {
		return e.ctx.elementArray(e.ctx.byClassName(e.id, call, false))
	},

	"getBoundingBox": (*element).boundingBox,
}

// elementKeys is sorted and free of duplicates.
var elementKeys = func() []string {
	keys := slices.Collect(maps.Keys(elementGetters))
	keys = slices.AppendSeq(keys, maps.Keys(elementSetters))
	keys = slices.AppendSeq(keys, maps.Keys(elementMethods))
	slices.Sort(keys)
	return slices.Compact(keys)
}()

func (e *element) node() *layout.Node { return e.ctx.tree.Node(e.id) }

func (e *element) Get(key string) goja.Value {
	if e.node() == nil {
		return goja.Undefined()
	}
	if g, ok := elementGetters[key]; ok {
		return g(e)
	}
	if m, ok := elementMethods[key]; ok {
		return e.ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value { return m(e, call) })
	}
	return goja.Undefined()
}

// Set on a removed element is accepted and ignored.
func (e *element) Set(key string, v goja.Value) bool {
	s, ok := elementSetters[key]
	if ok && e.node() != nil {
		s(e, v)
	}
	return ok
}

func (e *element) Has(key string) bool {
	_, ok := slices.BinarySearch(elementKeys, key)
	return ok
}

func (e *element) Delete(string) bool { return false }

func (e *element) Keys() []string { return elementKeys }

// tagName is upper case for elements, as in HTML, and the raw content tag
// for leaves.
func (e *element) tagName() goja.Value {
	n := e.node()
	if n.Kind() == layout.KindContent {
		return e.ctx.vm.ToValue(n.Tag())
	}
	return e.ctx.vm.ToValue(strings.ToUpper(n.Tag()))
}

func (e *element) parent() goja.Value {
	return e.ctx.proxyOrNull(e.node().Parent())
}

func attributeGetter(name string) elementGetter {
	return func(e *element) goja.Value {
		v, _ := e.node().Attribute(name)
		return e.ctx.vm.ToValue(v)
	}
}

func attributeSetter(name string) elementSetter {
	return func(e *element, v goja.Value) {
		e.ctx.throw(e.ctx.tree.SetAttribute(e.id, name, v.String()))
	}
}

func (e *element) getAttribute(call goja.FunctionCall) goja.Value {
	name, ok := stringArg(call, 0)
	if !ok {
		return goja.Null()
	}
	v, has := e.node().Attribute(name)
	if !has {
		return goja.Null()
	}
	return e.ctx.vm.ToValue(v)
}

func (e *element) setAttribute(call goja.FunctionCall) goja.Value {
	e.ctx.requireArgs(call, 2, "setAttribute")
	e.ctx.throw(e.ctx.tree.SetAttribute(e.id, call.Arguments[0].String(), call.Arguments[1].String()))
	return goja.Undefined()
}

func (e *element) hasAttribute(call goja.FunctionCall) goja.Value {
	name, ok := stringArg(call, 0)
	if ok {
		_, ok = e.node().Attribute(name)
	}
	return e.ctx.vm.ToValue(ok)
}

func (e *element) removeAttribute(call goja.FunctionCall) goja.Value {
	if name, ok := stringArg(call, 0); ok {
		e.ctx.throw(e.ctx.tree.RemoveAttribute(e.id, name))
	}
	return goja.Undefined()
}

func (e *element) contains(call goja.FunctionCall) goja.Value {
	other := e.ctx.nodeOf(call.Argument(0))
	return e.ctx.vm.ToValue(other != layout.NoNode && e.ctx.tree.Contains(e.id, other))
}

// textContent joins the words of the subtree with single spaces.
func (e *element) textContent() string {
	var words []string
	e.ctx.tree.Walk(e.id, func(n *layout.Node) bool {
		if run, ok := n.Content().(*layout.TextRun); ok {
			words = append(words, run.Text)
		}
		return true
	})
	return strings.Join(words, " ")
}

// boundingBox reports the last layout pass: the anchor relative to the
// parent and the size without margin.
func (e *element) boundingBox(goja.FunctionCall) goja.Value {
	n := e.node()
	size, err := n.Size()
	e.ctx.throw(err)
	pos := n.Position()
	return e.ctx.vm.ToValue(map[string]any{
		"x": pos.X, "y": pos.Y, "z": pos.Z,
		"width": size.X, "height": size.Y, "depth": size.Z,
	})
}
