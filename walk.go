package tmplcore

import "text/template/parse"

// Walk is the Control Walker of spec.md C4: it recursively interprets a
// parse.Node against dot and st, writing to st.sink in the exact
// left-to-right order its depth-first descent visits Text/Action nodes
// (spec.md §5 "Ordering guarantees").
func Walk(node parse.Node, dot Value, st *state) error {
	switch n := node.(type) {
	case *parse.TextNode:
		if _, err := st.sink.Write(n.Text); err != nil {
			return withNode(wrapError(WriteError, err, "sink write failed"), n)
		}
		return nil

	case *parse.ListNode:
		for _, child := range n.Nodes {
			if err := Walk(child, dot, st); err != nil {
				return err
			}
		}
		return nil

	case *parse.ActionNode:
		v, err := evalPipe(n.Pipe, dot, st)
		if err != nil {
			return withNode(err, n)
		}
		if len(n.Pipe.Decl) == 0 {
			if err := st.write(v); err != nil {
				return withNode(err, n)
			}
		}
		return nil

	case *parse.IfNode:
		return walkIf(n, dot, st)

	case *parse.WithNode:
		return walkWith(n, dot, st)

	case *parse.RangeNode:
		return walkRange(n, dot, st)

	case *parse.TemplateNode:
		return walkTemplate(n, dot, st)

	default:
		return newErrorf(UnsupportedArg, "%s is not a node the walker handles", describeNode(node))
	}
}

func walkIf(n *parse.IfNode, dot Value, st *state) error {
	v, err := evalPipe(n.Pipe, dot, st)
	if err != nil {
		return withNode(err, n)
	}
	if v.IsTrue() {
		return Walk(n.List, dot, st)
	}
	if n.ElseList != nil {
		return Walk(n.ElseList, dot, st)
	}
	return nil
}

// walkWith evaluates the spec.md §4.4 With contract: on a truthy pipe
// value, the body walks with dot rebound to that value; on a falsy
// value, the else branch — if present — walks with dot UNCHANGED (with
// must not rebind dot for the else branch).
func walkWith(n *parse.WithNode, dot Value, st *state) error {
	v, err := evalPipe(n.Pipe, dot, st)
	if err != nil {
		return withNode(err, n)
	}
	if v.IsTrue() {
		return Walk(n.List, v, st)
	}
	if n.ElseList != nil {
		return Walk(n.ElseList, dot, st)
	}
	return nil
}

// walkRange implements spec.md §4.4 Range. A non-iterable dot always
// fails RangeNotIterable regardless of ElseList (spec.md §8's testable
// property: "range with non-iterable dot fails RangeNotIterable (not
// else)"); ElseList is reserved for the iterable-but-empty case, where
// spec.md §4.4 says it walks with dot unchanged.
//
// The pipe's own Decl is not auto-declared by a generic pipe evaluation
// (unlike Action/If/With): range owns its induction variables, declaring
// them once before the loop and mutating them in place each iteration
// via SetKthLast, exactly as text/template's own exec.go does ("Set top
// var (lexically the second if there are two, the first if there's only
// one) to the element; set next var ... to the index").
func walkRange(n *parse.RangeNode, dot Value, st *state) error {
	v, err := evalPipeCommands(n.Pipe, dot, st)
	if err != nil {
		return withNode(err, n)
	}
	if !v.Iterable() {
		return newErrorf(RangeNotIterable, "range over %s is not iterable", v.Kind())
	}
	items := v.Iterate()
	if len(items) == 0 {
		if n.ElseList != nil {
			return Walk(n.ElseList, dot, st)
		}
		return nil
	}

	for _, decl := range n.Pipe.Decl {
		st.vars.Declare(decl.Ident[0], Null)
	}
	declCount := len(n.Pipe.Decl)

	for _, kv := range items {
		if declCount >= 1 {
			if err := st.vars.SetKthLast(1, kv.Value); err != nil {
				return withNode(err, n)
			}
		}
		if declCount >= 2 {
			if err := st.vars.SetKthLast(2, kv.Key); err != nil {
				return withNode(err, n)
			}
		}
		st.vars.PushFrame()
		err := Walk(n.List, kv.Value, st)
		st.vars.PopFrame()
		if err != nil {
			return err
		}
	}
	return nil
}

// walkTemplate implements spec.md §4.4 Template: look up the named
// template, evaluate its pipe (if any) against the caller's dot to get
// the new dot, and walk its root in a fresh state whose Variable Stack
// binds only "$" to that new dot.
func walkTemplate(n *parse.TemplateNode, dot Value, st *state) error {
	tree, ok := st.registry.Lookup(n.Name)
	if !ok || tree.Root == nil {
		return newErrorf(UnknownTemplate, "template %q is not defined", n.Name)
	}
	newDot := dot
	if n.Pipe != nil {
		v, err := evalPipe(n.Pipe, dot, st)
		if err != nil {
			return withNode(err, n)
		}
		newDot = v
	}
	nested, err := st.nested(newDot)
	if err != nil {
		return withNode(err, n)
	}
	return Walk(tree.Root, newDot, nested)
}

// evalPipeCommands evaluates a pipe's command chain without applying its
// Decl side effect, used by Range (which owns its own declare/rebind
// protocol instead of the generic "declare to final value" one evalPipe
// applies for Action/If/With).
func evalPipeCommands(pipe *parse.PipeNode, dot Value, st *state) (Value, error) {
	var result Value
	var hasResult bool
	for _, cmd := range pipe.Cmds {
		var trailing *Value
		if hasResult {
			trailing = &result
		}
		v, err := evalCommand(cmd, dot, st, trailing)
		if err != nil {
			return Value{}, withNode(err, cmd)
		}
		result = v
		hasResult = true
	}
	return result, nil
}
