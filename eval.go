package tmplcore

import "text/template/parse"

// evalPipe evaluates a *parse.PipeNode (spec.md C3 "Pipelines"): its
// Cmds run left to right, each result folded into the next as the
// implicit trailing argument, and the final command's result is the
// pipeline's value. If Decl is non-empty, each declared name is appended
// to the top frame bound to that final value, in order.
func evalPipe(pipe *parse.PipeNode, dot Value, st *state) (Value, error) {
	result, err := evalPipeCommands(pipe, dot, st)
	if err != nil {
		return Value{}, err
	}
	for _, decl := range pipe.Decl {
		st.vars.Declare(decl.Ident[0], result)
	}
	return result, nil
}

// evalCommand evaluates one *parse.CommandNode (spec.md C3 "Evaluates a
// Command"). trailing, if non-nil, is the value produced by the previous
// pipeline stage, passed as the implicit trailing argument.
func evalCommand(cmd *parse.CommandNode, dot Value, st *state, trailing *Value) (Value, error) {
	if len(cmd.Args) == 0 {
		return Value{}, newError(UnsupportedArg, "empty command")
	}
	first := cmd.Args[0]
	extra := cmd.Args[1:]

	if ident, ok := first.(*parse.IdentifierNode); ok {
		return evalFunctionCall(ident.Ident, extra, trailing, dot, st)
	}

	// Every other first-node kind is not a function: extra Command-level
	// args or a pipeline tail is only legal if the first node supports a
	// field chain (Field/Variable/Chain), in which case the mechanics of
	// "calling" its resolved value fail with NotCallable, since no Value
	// in this model is itself invokable. A bare literal/Dot/Pipe first
	// node has no chain to walk at all, so the same situation is the
	// simpler NotAFunction (spec.md §4.3, §7).
	switch n := first.(type) {
	case *parse.FieldNode:
		return evalFieldChainFrom(dot, n.Ident, extra, trailing, st, n)
	case *parse.VariableNode:
		root, err := st.vars.Lookup(n.Ident[0])
		if err != nil {
			return Value{}, withNode(err, n)
		}
		if len(n.Ident) == 1 {
			if len(extra) > 0 || trailing != nil {
				return Value{}, newErrorf(NotCallable, "variable %s is not callable", n.Ident[0])
			}
			return root, nil
		}
		return evalFieldChainFrom(root, n.Ident[1:], extra, trailing, st, n)
	case *parse.ChainNode:
		return evalChainCommand(n, dot, extra, trailing, st)
	default:
		if len(extra) > 0 || trailing != nil {
			return Value{}, newErrorf(NotAFunction, "%s is not a function", describeNode(first))
		}
		return evalLiteralOrDot(first, dot, st)
	}
}

// evalFunctionCall assembles a function's argument list per spec.md C3
// "Function call": each explicit argument node is evaluated via argument
// evaluation, then the pipeline tail (if any) is appended last.
func evalFunctionCall(name string, argNodes []parse.Node, trailing *Value, dot Value, st *state) (Value, error) {
	fn, err := st.funcs.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(argNodes)+1)
	for _, a := range argNodes {
		v, err := evalArg(a, dot, st)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	if trailing != nil {
		args = append(args, *trailing)
	}
	v, err := fn(args)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return Value{}, err
		}
		return Value{}, wrapError(FunctionError, err, "function "+name+" failed")
	}
	return v, nil
}

// evalArg implements spec.md C3 "Argument evaluation": it recursively
// re-enters the evaluator with no arguments and no trailing input,
// supporting Dot, Field, Variable, Pipe, Chain, String, Bool, Number.
func evalArg(node parse.Node, dot Value, st *state) (Value, error) {
	switch n := node.(type) {
	case *parse.DotNode:
		return dot, nil
	case *parse.FieldNode:
		return evalFieldChainFrom(dot, n.Ident, nil, nil, st, n)
	case *parse.VariableNode:
		root, err := st.vars.Lookup(n.Ident[0])
		if err != nil {
			return Value{}, withNode(err, n)
		}
		if len(n.Ident) == 1 {
			return root, nil
		}
		return evalFieldChainFrom(root, n.Ident[1:], nil, nil, st, n)
	case *parse.PipeNode:
		return evalPipe(n, dot, st)
	case *parse.ChainNode:
		return evalChainValue(n, dot, st)
	case *parse.StringNode:
		return String(n.Text), nil
	case *parse.BoolNode:
		return Bool(n.True), nil
	case *parse.NumberNode:
		return numberNodeValue(n), nil
	default:
		return Value{}, newErrorf(UnsupportedArg, "%s is not a supported argument", describeNode(node))
	}
}

// evalLiteralOrDot handles the literal/Dot branch of the first-node
// dispatch table (spec.md C3) once extra args/trailing have been ruled
// out by the caller.
func evalLiteralOrDot(node parse.Node, dot Value, st *state) (Value, error) {
	switch n := node.(type) {
	case *parse.DotNode:
		return dot, nil
	case *parse.NilNode:
		return Null, nil
	case *parse.BoolNode:
		return Bool(n.True), nil
	case *parse.NumberNode:
		return numberNodeValue(n), nil
	case *parse.StringNode:
		return String(n.Text), nil
	case *parse.PipeNode:
		return evalPipe(n, dot, st)
	default:
		return Value{}, newErrorf(UnsupportedArg, "%s is not a supported expression", describeNode(node))
	}
}

func numberNodeValue(n *parse.NumberNode) Value {
	if n.IsInt {
		return Int(n.Int64)
	}
	if n.IsUint {
		return Int(int64(n.Uint64))
	}
	return Float(n.Float64)
}

// evalChainCommand handles a Chain as a Command's first node, forwarding
// any Command-level extra args/trailing input into the field chain's
// final link (spec.md C3 "Chain node" + "Field chain evaluation").
func evalChainCommand(n *parse.ChainNode, dot Value, extra []parse.Node, trailing *Value, st *state) (Value, error) {
	base, err := evalChainBase(n, dot, st)
	if err != nil {
		return Value{}, err
	}
	return evalFieldChainFrom(base, n.Field, extra, trailing, st, n)
}

// evalChainValue handles a Chain evaluated as an argument (no extra args,
// no trailing input).
func evalChainValue(n *parse.ChainNode, dot Value, st *state) (Value, error) {
	base, err := evalChainBase(n, dot, st)
	if err != nil {
		return Value{}, err
	}
	return evalFieldChainFrom(base, n.Field, nil, nil, st, n)
}

func evalChainBase(n *parse.ChainNode, dot Value, st *state) (Value, error) {
	if len(n.Field) == 0 {
		return Value{}, newError(UnsupportedArg, "chain node has no field names")
	}
	if _, ok := n.Node.(*parse.NilNode); ok {
		return Value{}, newErrorf(IndirectionThroughNil, "indirection through nil in %s", n)
	}
	return evalArg(n.Node, dot, st)
}

// evalFieldChainFrom implements spec.md C3 "Field chain evaluation" of
// receiver along names (n >= 1): f_1..f_{n-1} are walked as plain field
// accesses, then f_n is resolved the same way. extra/trailing, when
// present, represent an attempt to call the final resolved value — since
// no Value in this model is callable, that attempt always fails
// NotCallable (spec.md §4.3 "Field access on a scalar ... is NotCallable").
func evalFieldChainFrom(receiver Value, names []string, extra []parse.Node, trailing *Value, st *state, node interface {
	String() string
}) (Value, error) {
	cur := receiver
	for _, name := range names {
		next, err := cur.Get(name)
		if err != nil {
			return Value{}, withNode(err, node)
		}
		cur = next
	}
	if len(extra) > 0 || trailing != nil {
		return Value{}, newErrorf(NotCallable, "%s is not callable", node)
	}
	return cur, nil
}

func describeNode(n parse.Node) string {
	return n.String()
}
