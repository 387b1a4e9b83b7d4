// Package compiler turns a parsed comprehension into a lazy pipeline.
//
// The clause list is folded from the innermost clause outwards. The
// innermost clause becomes a filter-map over its source that yields the
// mapping. Every enclosing clause becomes a filter-map over its own source
// that produces the already-compiled inner pipeline for each admitted
// element, flattened one level. The result is a single flat sequence in
// nested-loop order.
package compiler

import (
	"iter"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/pkg/seq"
)

// Host evaluates the expressions and patterns a comprehension is built
// from. V is the host's value type, S its scope (binding environment).
type Host[V, S any] interface {
	// Iterate evaluates source in scope and iterates the result. The
	// source is evaluated when the returned sequence is first ranged over.
	Iterate(source ast.Expression, scope S) iter.Seq2[V, error]
	// Bind matches elem against pattern. It returns the extended scope and
	// false when elem does not match.
	Bind(pattern ast.Pattern, elem V, scope S) (S, bool, error)
	// Test evaluates a filter condition.
	Test(condition ast.Expression, scope S) (bool, error)
	// Map evaluates the mapping expression.
	Map(mapping ast.Expression, scope S) (V, error)
}

// Pipeline is a compiled comprehension. Each call starts an independent
// lazy pass in the given outer scope.
type Pipeline[V, S any] func(scope S) iter.Seq2[V, error]

// Fold reduces the clauses of c innermost first. base receives the
// innermost clause and the mapping; step wraps the accumulated inner
// result with each enclosing clause in turn.
func Fold[T any](c *ast.Comprehension, base func(*ast.Clause, ast.Expression) T, step func(*ast.Clause, T) T) T {
	n := len(c.Clauses)
	acc := base(c.Clauses[n-1], c.Mapping)
	for i := n - 2; i >= 0; i-- {
		acc = step(c.Clauses[i], acc)
	}
	return acc
}

// Compile builds the lazy pipeline for c. It cannot fail on a well-formed
// comprehension; evaluation errors surface through the sequence, unwrapped,
// and end it.
func Compile[V, S any](c *ast.Comprehension, host Host[V, S]) Pipeline[V, S] {
	return Fold(c,
		func(clause *ast.Clause, mapping ast.Expression) Pipeline[V, S] {
			return func(scope S) iter.Seq2[V, error] {
				return seq.TryFilterMap(host.Iterate(clause.Source, scope), func(elem V) (V, bool, error) {
					var zero V
					inner, ok, err := admit(host, clause, elem, scope)
					if err != nil || !ok {
						return zero, false, err
					}
					v, err := host.Map(mapping, inner)
					if err != nil {
						return zero, false, err
					}
					return v, true, nil
				})
			}
		},
		func(clause *ast.Clause, body Pipeline[V, S]) Pipeline[V, S] {
			return func(scope S) iter.Seq2[V, error] {
				layer := seq.TryFilterMap(host.Iterate(clause.Source, scope), func(elem V) (iter.Seq2[V, error], bool, error) {
					inner, ok, err := admit(host, clause, elem, scope)
					if err != nil || !ok {
						return nil, false, err
					}
					return body(inner), true, nil
				})
				return seq.TryFlatten(layer)
			}
		},
	)
}

// admit binds elem to the clause pattern and tests the clause conditions
// in order, stopping at the first one that does not hold.
func admit[V, S any](host Host[V, S], clause *ast.Clause, elem V, scope S) (S, bool, error) {
	inner, ok, err := host.Bind(clause.Pattern, elem, scope)
	if err != nil || !ok {
		return inner, false, err
	}
	for _, cond := range clause.Conditions {
		ok, err := host.Test(cond, inner)
		if err != nil || !ok {
			return inner, false, err
		}
	}
	return inner, true, nil
}
