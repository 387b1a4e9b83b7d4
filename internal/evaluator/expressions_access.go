package evaluator

import (
	"github.com/funvibe/comp/internal/ast"
)

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}
	return located(evalIndex(left, index), node)
}

func evalIndex(left, index Object) Object {
	switch l := left.(type) {
	case *List:
		return indexElements(l.Elements, index, LIST_OBJ)
	case *Tuple:
		return indexElements(l.Elements, index, TUPLE_OBJ)
	case *String:
		runes := []rune(l.Value)
		i, err := elementIndex(len(runes), index, STRING_OBJ)
		if err != nil {
			return err
		}
		return &String{Value: string(runes[i])}
	case *Record:
		key, ok := index.(*String)
		if !ok {
			return newError("record index must be STRING, got %s", index.Type())
		}
		if val, ok := l.Get(key.Value); ok {
			return val
		}
		return newError("record has no field %q", key.Value)
	}
	return newError("index operator not supported: %s", left.Type())
}

func indexElements(elements []Object, index Object, kind ObjectType) Object {
	i, err := elementIndex(len(elements), index, kind)
	if err != nil {
		return err
	}
	return elements[i]
}

// elementIndex resolves index against a collection of length n. Negative
// indices count from the end.
func elementIndex(n int, index Object, kind ObjectType) (int, *Error) {
	idx, ok := index.(*Integer)
	if !ok {
		return 0, newError("%s index must be INTEGER, got %s", kind, index.Type())
	}
	i := idx.Value
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, newError("index %d out of range for %s of length %d", idx.Value, kind, n)
	}
	return int(i), nil
}

func (e *Evaluator) evalMemberExpression(node *ast.MemberExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	rec, ok := left.(*Record)
	if !ok {
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"cannot access field %s of %s", node.Member.Value, left.Type())
	}
	if val, ok := rec.Get(node.Member.Value); ok {
		return val
	}
	return newErrorWithLocation(node.Member.Token.Line, node.Member.Token.Column,
		"record has no field %s", node.Member.Value)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := e.Eval(node.Function, env)
	if isError(function) {
		return function
	}
	builtin, ok := function.(*Builtin)
	if !ok {
		return newErrorWithLocation(node.Token.Line, node.Token.Column, "not a function: %s", function.Type())
	}
	args, errObj := e.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	return located(builtin.Fn(e, args...), node.Function)
}
