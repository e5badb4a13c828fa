package tmplcore

import (
	"bytes"
	"io"
	"log"
	"os"
	"text/template/parse"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Engine ties together the Template Set (Registry), Function Table, and
// Config into the two public operations spec.md §6 names: Execute and
// Render. It is the module's top-level entry point.
type Engine struct {
	registry *Registry
	funcs    *FuncTable
	config   *Config
	logger   *log.Logger
}

// New returns an Engine with an empty Template Set, the builtin Function
// Table (spec.md §4.5), and cfg (DefaultConfig() if nil).
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		registry: NewRegistry(),
		funcs:    NewFuncTable(),
		config:   cfg,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLogger overrides the engine's diagnostic logger (default:
// log.Default()-equivalent writing to stderr), matching the teacher's
// plain "log" package idiom rather than a structured logging framework.
func (e *Engine) SetLogger(l *log.Logger) { e.logger = l }

// RegisterFunc adds or replaces a callable in the Function Table
// (spec.md §4.5, "Function registration: add (name, callable) pairs
// before execution").
func (e *Engine) RegisterFunc(name string, fn Func) {
	e.funcs.Register(name, fn)
}

// Registry exposes the Template Set for callers that build it directly
// (e.g. tests composing parse.Tree values by hand).
func (e *Engine) Registry() *Registry { return e.registry }

// ParseAndRegister parses text with the standard library's
// text/template/parse (the Parser external collaborator spec.md §1
// scopes out of the core) and adopts every resulting tree into the
// engine's Template Set, naming rootName as id 1.
func (e *Engine) ParseAndRegister(rootName, text, leftDelim, rightDelim string) error {
	knownFuncs := make(map[string]interface{}, len(e.funcs.Names()))
	for _, name := range e.funcs.Names() {
		knownFuncs[name] = placeholderFunc
	}
	trees, err := parse.Parse(rootName, text, leftDelim, rightDelim, knownFuncs)
	if err != nil {
		return wrapError(IncompleteTemplate, err, "failed to parse template "+rootName)
	}
	e.registry.RegisterSet(trees, rootName)
	return nil
}

// placeholderFunc satisfies text/template/parse's requirement that every
// identifier used as a function be a known name at parse time; parse
// never calls it, it only inspects the map's keys.
func placeholderFunc() {}

// Execute renders the root template (Template Set id 1) against ctx,
// writing interpolated bytes to sink in depth-first order (spec.md §6).
// It fails IncompleteTemplate if no root is registered or the root has
// no body.
func (e *Engine) Execute(sink io.Writer, ctx Context) error {
	tree, ok := e.registry.Root(1)
	if !ok || tree.Root == nil {
		return newError(IncompleteTemplate, "no root template registered")
	}
	traceID := uuid.NewString()
	st, err := newRootState(ctx.Value(), e.registry, e.funcs, e.config, e.logger, traceID)
	if err != nil {
		return err
	}
	st.sink = sink
	if err := Walk(tree.Root, ctx.Value(), st); err != nil {
		e.logger.Printf("tmplcore[%s]: render failed: %v", traceID, err)
		return err
	}
	if st.vars.Depth() != 1 {
		e.logger.Printf("tmplcore[%s]: variable stack left at depth %d after render, expected 1", traceID, st.vars.Depth())
	}
	return nil
}

// Render is the convenience form of spec.md §6: it executes into an
// in-memory buffer and returns its contents as a string, failing
// InvalidUtf8 if the rendered bytes are not valid UTF-8.
func (e *Engine) Render(ctx Context) (string, error) {
	var buf bytes.Buffer
	if err := e.Execute(&buf, ctx); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", newError(InvalidUtf8, "rendered output is not valid UTF-8")
	}
	return buf.String(), nil
}
