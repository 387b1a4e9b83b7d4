package evaluator

import (
	"github.com/funvibe/comp/internal/ast"
)

// bindPattern matches val against pattern, binding names into env. It
// reports false when val does not have the pattern's shape or literal value.
func bindPattern(pattern ast.Pattern, val Object, env *Environment) bool {
	switch p := pattern.(type) {
	case *ast.IdentifierPattern:
		env.Set(p.Value, val)
		return true
	case *ast.WildcardPattern:
		return true
	case *ast.LiteralPattern:
		return ObjectsEqual(literalObject(p.Value), val)
	case *ast.TuplePattern:
		return bindElements(p.Elements, val, env)
	case *ast.ListPattern:
		return bindElements(p.Elements, val, env)
	}
	return false
}

// bindElements destructures a tuple or list of exactly len(patterns) elements.
func bindElements(patterns []ast.Pattern, val Object, env *Environment) bool {
	var elements []Object
	switch v := val.(type) {
	case *Tuple:
		elements = v.Elements
	case *List:
		elements = v.Elements
	default:
		return false
	}
	if len(elements) != len(patterns) {
		return false
	}
	for i, p := range patterns {
		if !bindPattern(p, elements[i], env) {
			return false
		}
	}
	return true
}

func literalObject(v interface{}) Object {
	switch v := v.(type) {
	case int64:
		return &Integer{Value: v}
	case float64:
		return &Float{Value: v}
	case string:
		return &String{Value: v}
	case bool:
		return nativeBoolToBooleanObject(v)
	}
	return NIL
}
