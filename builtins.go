package tmplcore

import (
	"fmt"
	"strconv"
)

// registerCoreBuiltins installs the minimum builtin set spec.md §4.5
// requires: len, eq, ne, lt, le, gt, ge, and, or, not, print, println,
// printf, index. Semantics follow text/template convention; the
// evaluator itself only cares that Func's uniform call contract holds.
func registerCoreBuiltins(t *FuncTable) {
	t.Register("len", builtinLen)
	t.Register("eq", builtinEq)
	t.Register("ne", builtinNe)
	t.Register("lt", builtinCompare(func(c int) bool { return c < 0 }))
	t.Register("le", builtinCompare(func(c int) bool { return c <= 0 }))
	t.Register("gt", builtinCompare(func(c int) bool { return c > 0 }))
	t.Register("ge", builtinCompare(func(c int) bool { return c >= 0 }))
	t.Register("and", builtinAnd)
	t.Register("or", builtinOr)
	t.Register("not", builtinNot)
	t.Register("print", builtinPrint)
	t.Register("println", builtinPrintln)
	t.Register("printf", builtinPrintf)
	t.Register("index", builtinIndex)
}

func builtinLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, newErrorf(FunctionError, "len: wrong number of args, want 1, got %d", len(args))
	}
	n, ok := args[0].Len()
	if !ok {
		return Value{}, newErrorf(FunctionError, "len: %s has no length", args[0].Kind())
	}
	return Int(int64(n)), nil
}

// builtinEq mirrors text/template's variadic eq: true if arg1 equals any
// of arg2..argN.
func builtinEq(args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, newErrorf(FunctionError, "eq: wrong number of args, want at least 2, got %d", len(args))
	}
	for _, other := range args[1:] {
		if args[0].Equal(other) {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

func builtinNe(args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, newErrorf(FunctionError, "ne: wrong number of args, want 2, got %d", len(args))
	}
	return Bool(!args[0].Equal(args[1])), nil
}

// builtinCompare builds lt/le/gt/ge from a comparison-result predicate;
// all four take exactly two numeric or two string arguments.
func builtinCompare(accept func(cmp int) bool) Func {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, newErrorf(FunctionError, "comparison: wrong number of args, want 2, got %d", len(args))
		}
		cmp, err := compareValues(args[0], args[1])
		if err != nil {
			return Value{}, err
		}
		return Bool(accept(cmp)), nil
	}
}

func compareValues(a, b Value) (int, error) {
	if a.Kind() == KindString && b.Kind() == KindString {
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}
	}
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if !aok || !bok {
		return 0, newErrorf(FunctionError, "comparison: incomparable types %s and %s", a.Kind(), b.Kind())
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

func numeric(v Value) (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// builtinAnd does not short-circuit argument evaluation (its arguments
// are already evaluated by the time a Func runs) but does short-circuit
// its own result: it returns the first falsy argument, or the last
// argument if every one of them is truthy, matching text/template.
func builtinAnd(args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, newError(FunctionError, "and: wrong number of args, want at least 1")
	}
	result := args[0]
	for _, a := range args {
		result = a
		if !a.IsTrue() {
			return result, nil
		}
	}
	return result, nil
}

// builtinOr returns the first truthy argument, or the last argument if
// none are truthy.
func builtinOr(args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, newError(FunctionError, "or: wrong number of args, want at least 1")
	}
	result := args[0]
	for _, a := range args {
		result = a
		if a.IsTrue() {
			return result, nil
		}
	}
	return result, nil
}

func builtinNot(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, newErrorf(FunctionError, "not: wrong number of args, want 1, got %d", len(args))
	}
	return Bool(!args[0].IsTrue()), nil
}

func builtinPrint(args []Value) (Value, error) {
	return String(fmt.Sprint(toInterfaces(args)...)), nil
}

func builtinPrintln(args []Value) (Value, error) {
	return String(fmt.Sprintln(toInterfaces(args)...)), nil
}

func builtinPrintf(args []Value) (Value, error) {
	if len(args) < 1 {
		return Value{}, newError(FunctionError, "printf: wrong number of args, want at least 1")
	}
	format, ok := stringOf(args[0])
	if !ok {
		return Value{}, newErrorf(FunctionError, "printf: format must be a string, got %s", args[0].Kind())
	}
	return String(fmt.Sprintf(format, toInterfaces(args[1:])...)), nil
}

// builtinIndex indexes into a composite value with one or more keys,
// applied successively: index(x, a, b) is equivalent to indexing x by a,
// then indexing that result by b.
func builtinIndex(args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, newErrorf(FunctionError, "index: wrong number of args, want at least 2, got %d", len(args))
	}
	cur := args[0]
	for _, key := range args[1:] {
		next, err := indexOnce(cur, key)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

func indexOnce(v Value, key Value) (Value, error) {
	switch v.Kind() {
	case KindArray:
		i, ok := intOf(key)
		if !ok {
			return Value{}, newErrorf(FunctionError, "index: array index must be an integer, got %s", key.Kind())
		}
		if i < 0 || i >= len(v.arr) {
			return Value{}, newErrorf(FunctionError, "index: array index %d out of range", i)
		}
		return v.arr[i], nil
	case KindMap, KindObject:
		name, ok := stringOf(key)
		if !ok {
			return Value{}, newErrorf(FunctionError, "index: map/object key must be a string, got %s", key.Kind())
		}
		return v.Get(name)
	default:
		return Value{}, newErrorf(FunctionError, "index: cannot index %s", v.Kind())
	}
}

func intOf(v Value) (int, bool) {
	switch v.Kind() {
	case KindInt:
		return int(v.i), true
	case KindFloat:
		return int(v.f), true
	case KindString:
		n, err := strconv.Atoi(v.s)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringOf(v Value) (string, bool) {
	if v.Kind() == KindString {
		return v.s, true
	}
	return "", false
}

func toInterfaces(args []Value) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = toInterface(a)
	}
	return out
}

func toInterface(v Value) interface{} {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return v.Text()
	}
}
