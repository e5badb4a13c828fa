package tmplcore

import (
	"io"
	"log"
)

// state is the per-invocation execution state of spec.md §3: the output
// sink, the owning Template Set, the lexical Variable Stack, and
// bookkeeping the spec leaves to the implementer (recursion depth,
// diagnostics). A nested `template` invocation gets a fresh *state with
// its own Variable Stack but the same sink, depth+1 (spec.md §4.4, §5).
type state struct {
	sink     io.Writer
	registry *Registry
	funcs    *FuncTable
	vars     *VarStack
	depth    int
	maxDepth int
	logger   *log.Logger
	locale   *localePrinter
	traceID  string
}

// newRootState builds the state for a top-level Execute call: a single
// frame binding "$" to root, depth 0.
func newRootState(root Value, registry *Registry, funcs *FuncTable, cfg *Config, logger *log.Logger, traceID string) (*state, error) {
	var lp *localePrinter
	if cfg.Locale != "" {
		var err error
		lp, err = newLocalePrinter(cfg.Locale)
		if err != nil {
			return nil, err
		}
	}
	return &state{
		sink:     nil, // set by caller right before Walk
		registry: registry,
		funcs:    funcs,
		vars:     NewVarStack(root),
		depth:    0,
		maxDepth: cfg.MaxRecursionDepth,
		logger:   logger,
		locale:   lp,
		traceID:  traceID,
	}, nil
}

// nested returns the fresh state a {{template}} invocation executes with:
// same sink, same registry/funcs/config, a brand new single-frame
// Variable Stack binding "$" to callerDot, depth+1 (spec.md §4.4, §5).
func (s *state) nested(callerDot Value) (*state, error) {
	if s.depth+1 > s.maxDepth {
		return nil, newErrorf(TemplateRecursionTooDeep, "template recursion exceeded %d levels", s.maxDepth)
	}
	return &state{
		sink:     s.sink,
		registry: s.registry,
		funcs:    s.funcs,
		vars:     NewVarStack(callerDot),
		depth:    s.depth + 1,
		maxDepth: s.maxDepth,
		logger:   s.logger,
		locale:   s.locale,
		traceID:  s.traceID,
	}, nil
}

func (s *state) write(v Value) error {
	return writeValue(s.sink, v, s.locale)
}
