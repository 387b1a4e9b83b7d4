package evaluator

import (
	"iter"
	"log/slog"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/compiler"
)

// The Evaluator is the host comprehensions are compiled against.
var _ compiler.Host[Object, *Environment] = (*Evaluator)(nil)

// Iterate evaluates source when the returned sequence is first ranged over
// and yields its elements.
func (e *Evaluator) Iterate(source ast.Expression, scope *Environment) iter.Seq2[Object, error] {
	return func(yield func(Object, error) bool) {
		obj := e.Eval(source, scope)
		if errObj, ok := obj.(*Error); ok {
			yield(nil, errObj)
			return
		}
		it, errObj := Iter(obj)
		if errObj != nil {
			located(errObj, source)
			yield(nil, errObj)
			return
		}
		for v, err := range it {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Bind matches elem against pattern in a new scope enclosed by scope.
// A mismatch skips the element; it is never an error.
func (e *Evaluator) Bind(pattern ast.Pattern, elem Object, scope *Environment) (*Environment, bool, error) {
	inner := NewEnclosedEnvironment(scope)
	if !bindPattern(pattern, elem, inner) {
		return scope, false, nil
	}
	return inner, true, nil
}

// Test evaluates a condition, which must be BOOLEAN.
func (e *Evaluator) Test(condition ast.Expression, scope *Environment) (bool, error) {
	obj := e.Eval(condition, scope)
	switch obj := obj.(type) {
	case *Error:
		return false, obj
	case *Boolean:
		return obj.Value, nil
	}
	tok := condition.GetToken()
	return false, newErrorWithLocation(tok.Line, tok.Column, "condition must be BOOLEAN, got %s", obj.Type())
}

// Map evaluates the mapping expression.
func (e *Evaluator) Map(mapping ast.Expression, scope *Environment) (Object, error) {
	obj := e.Eval(mapping, scope)
	if errObj, ok := obj.(*Error); ok {
		return nil, errObj
	}
	return obj, nil
}

// Compile returns the pipeline of c, compiling it on first use.
func (e *Evaluator) Compile(c *ast.Comprehension) compiler.Pipeline[Object, *Environment] {
	if p, ok := e.compiled[c]; ok {
		return p
	}
	p := compiler.Compile[Object, *Environment](c, e)
	if e.compiled == nil {
		e.compiled = make(map[*ast.Comprehension]compiler.Pipeline[Object, *Environment])
	}
	e.compiled[c] = p
	slog.Debug("compiled nested comprehension", "line", c.Token.Line, "column", c.Token.Column,
		"layers", len(c.Clauses))
	return p
}

// evalListComprehension evaluates [M for ...] to a lazy Sequence closed
// over env. Nothing is iterated until the sequence is.
func (e *Evaluator) evalListComprehension(node *ast.ListComprehension, env *Environment) Object {
	pipeline := e.Compile(node.Comprehension)
	return &Sequence{Seq: pipeline(env), Label: "comprehension"}
}
