package js

import (
	"slices"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"livre3d/pkg/layout"
)

// declaration is one property of a style attribute.
type declaration struct {
	property, value string
}

// styleDeclaration backs element.style. camelCase names map to the
// kebab-case properties of the style attribute, which is rewritten on
// every assignment so the cascade sees the change.
type styleDeclaration struct {
	ctx *domContext
	id  layout.NodeID
}

func newStyleDeclaration(ctx *domContext, id layout.NodeID) goja.Value {
	return ctx.vm.NewDynamicObject(&styleDeclaration{ctx: ctx, id: id})
}

func (s *styleDeclaration) load() []declaration {
	n := s.ctx.tree.Node(s.id)
	if n == nil {
		return nil
	}
	v, _ := n.Attribute("style")
	return parseDeclarations(v)
}

func (s *styleDeclaration) store(decls []declaration) {
	s.ctx.throw(s.ctx.tree.SetAttribute(s.id, "style", formatDeclarations(decls)))
}

func (s *styleDeclaration) Get(key string) goja.Value {
	vm := s.ctx.vm
	switch key {
	case "cssText":
		return vm.ToValue(formatDeclarations(s.load()))
	case "length":
		return vm.ToValue(len(s.load()))
	case "getPropertyValue":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(lookup(s.load(), call.Argument(0).String()))
		})
	case "setProperty":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			s.set(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "removeProperty":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			prop := call.Argument(0).String()
			old := lookup(s.load(), prop)
			s.remove(prop)
			return vm.ToValue(old)
		})
	}
	return vm.ToValue(lookup(s.load(), camelToKebab(key)))
}

func (s *styleDeclaration) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.store(parseDeclarations(val.String()))
		return true
	}
	s.set(camelToKebab(key), val.String())
	return true
}

// set replaces a property in place or appends it. An empty value removes
// it, as in the CSSOM.
func (s *styleDeclaration) set(prop, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		s.remove(prop)
		return
	}
	decls := s.load()
	if i := slices.IndexFunc(decls, func(d declaration) bool { return d.property == prop }); i >= 0 {
		decls[i].value = value
	} else {
		decls = append(decls, declaration{prop, value})
	}
	s.store(decls)
}

func (s *styleDeclaration) remove(prop string) {
	decls := s.load()
	n := len(decls)
	decls = slices.DeleteFunc(decls, func(d declaration) bool { return d.property == prop })
	if len(decls) != n {
		s.store(decls)
	}
}

func (s *styleDeclaration) Has(string) bool { return true }

func (s *styleDeclaration) Delete(key string) bool {
	s.remove(camelToKebab(key))
	return true
}

func (s *styleDeclaration) Keys() []string {
	decls := s.load()
	keys := make([]string, len(decls))
	for i, d := range decls {
		keys[i] = d.property
	}
	return keys
}

func lookup(decls []declaration, prop string) string {
	for _, d := range decls {
		if d.property == prop {
			return d.value
		}
	}
	return ""
}

// parseDeclarations splits a style attribute into declarations in source
// order. Malformed entries are dropped and a repeated property keeps its
// first position with the last value.
func parseDeclarations(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		prop, value = strings.ToLower(strings.TrimSpace(prop)), strings.TrimSpace(value)
		if !ok || prop == "" {
			continue
		}
		if i := slices.IndexFunc(decls, func(d declaration) bool { return d.property == prop }); i >= 0 {
			decls[i].value = value
			continue
		}
		decls = append(decls, declaration{prop, value})
	}
	return decls
}

func formatDeclarations(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.property + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// camelToKebab maps a script property name such as backgroundColor to
// background-color.
func camelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
