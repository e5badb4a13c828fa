package tmplcore

// Context wraps a single Value as the current "dot" (spec.md §3). It is
// the boundary type: callers build one from arbitrary Go data via
// NewContext, and the evaluator works with the underlying Value from
// there on, per the Design Notes' "normalize once at Context
// construction, not per access" guidance.
type Context struct {
	dot   Value
	empty bool
}

// emptySentinel is the Value an empty Context carries: spec.md says its
// formatting is undefined and its truthiness is false, which KindNoValue
// already satisfies without inventing a new Kind.
var emptySentinel = NoValue

// NewContext converts an arbitrary Go value into a Context, via FromGo's
// reflect-based bridge (structs become Object, maps become Map, and so
// on).
func NewContext(data interface{}) Context {
	return Context{dot: FromGo(data)}
}

// NewContextValue wraps an already-constructed Value directly, skipping
// the reflect bridge — useful when the caller already has a Value
// (e.g. composing nested renders).
func NewContextValue(v Value) Context {
	return Context{dot: v}
}

// EmptyContext is the sentinel Context described by spec.md §3.
func EmptyContext() Context {
	return Context{dot: emptySentinel, empty: true}
}

// Value returns the underlying dynamic value.
func (c Context) Value() Value {
	if c.empty {
		return emptySentinel
	}
	return c.dot
}
