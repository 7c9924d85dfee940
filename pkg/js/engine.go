package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"livre3d/pkg/html"
	"livre3d/pkg/layout"
)

// Engine executes JavaScript against a layout tree. Scripts mutate the
// tree through the same operations as Go callers, so every change
// requests its own re-layout.
type Engine struct {
	vm  *goja.Runtime
	dom *domContext
	log *zap.Logger
}

type Option func(*options)

type options struct {
	log     *zap.Logger
	resizer Resizer
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithResizer enables window.resize.
func WithResizer(r Resizer) Option {
	return func(o *options) { o.resizer = r }
}

// New creates a JS engine with a fresh goja runtime bound to tree.
func New(tree *layout.Tree, opts ...Option) *Engine {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	log := o.log.Named("js")

	vm := goja.New()
	e := &Engine{vm: vm, dom: newDOMContext(vm, tree), log: log}

	registerConsole(vm, log.Named("console"))
	registerDocument(e.dom)
	registerWindow(e.dom, o.resizer)
	return e
}

// Execute runs all scripts from the document in order. The first failing
// script stops execution; mutations made before it are kept.
func (e *Engine) Execute(doc *html.Document) error {
	for i, script := range doc.Scripts {
		if err := e.Run(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates one script.
func (e *Engine) Run(src string) error {
	_, err := e.vm.RunString(src)
	if err != nil {
		e.log.Warn("script failed", zap.Error(err))
	}
	return err
}

// TakePending returns and clears the resources referenced by markup that
// scripts inserted.
func (e *Engine) TakePending() []layout.Pending {
	p := e.dom.pending
	e.dom.pending = nil
	return p
}
