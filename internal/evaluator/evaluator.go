// Package evaluator implements the expression language comprehensions are
// written in, and the compiler.Host that runs compiled comprehensions over
// it.
package evaluator

import (
	"context"
	"database/sql"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/compiler"
)

type Evaluator struct {
	// Context for cancellation of database queries
	Context context.Context
	// DB backs the query builtin. Nil disables it.
	DB *sql.DB
	// Builtins visible to every expression, unless shadowed by a binding
	Builtins map[string]*Builtin

	// compiled caches nested comprehension pipelines per node
	compiled map[*ast.Comprehension]compiler.Pipeline[Object, *Environment]
}

func New() *Evaluator {
	return &Evaluator{
		Context:  context.Background(),
		Builtins: Builtins(),
		compiled: make(map[*ast.Comprehension]compiler.Pipeline[Object, *Environment]),
	}
}

// Eval evaluates a host expression. Failures are returned as *Error objects
// carrying the position of the expression that failed.
func (e *Evaluator) Eval(node ast.Expression, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NilLiteral:
		return NIL
	case *ast.ListLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return err
		}
		return &List{Elements: elements}
	case *ast.TupleLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return err
		}
		return &Tuple{Elements: elements}
	case *ast.RecordLiteral:
		rec := &Record{Fields: make([]RecordField, 0, len(node.Fields))}
		for _, f := range node.Fields {
			val := e.Eval(f.Value, env)
			if isError(val) {
				return val
			}
			rec.Set(f.Key, val)
		}
		return rec
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return located(e.evalPrefixExpression(node.Operator, right), node)
	case *ast.InfixExpression:
		return e.evalInfix(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.MemberExpression:
		return e.evalMemberExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.ListComprehension:
		return e.evalListComprehension(node, env)
	case nil:
		return newError("missing expression")
	}
	return newErrorWithLocation(node.GetToken().Line, node.GetToken().Column,
		"cannot evaluate %T", node)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := e.Builtins[node.Value]; ok {
		return builtin
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column, "identifier not found: %s", node.Value)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) ([]Object, Object) {
	result := make([]Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return nil, evaluated
		}
		result = append(result, evaluated)
	}
	return result, nil
}

// located stamps the position of node on an unpositioned error.
func located(obj Object, node ast.TokenProvider) Object {
	if err, ok := obj.(*Error); ok && err.Line == 0 {
		tok := node.GetToken()
		err.Line, err.Column = tok.Line, tok.Column
	}
	return obj
}
