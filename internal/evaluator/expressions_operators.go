package evaluator

import (
	"math"

	"github.com/funvibe/comp/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		if b, ok := right.(*Boolean); ok {
			return nativeBoolToBooleanObject(!b.Value)
		}
		return newError("operator ! not supported for %s", right.Type())
	case "-":
		switch right := right.(type) {
		case *Integer:
			return &Integer{Value: -right.Value}
		case *Float:
			return &Float{Value: -right.Value}
		}
		return newError("unknown operator: %s%s", operator, right.Type())
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

// evalInfix evaluates both sides, except for && and || which stop at the
// first operand that decides the result.
func (e *Evaluator) evalInfix(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	if node.Operator == "&&" || node.Operator == "||" {
		l, ok := left.(*Boolean)
		if !ok {
			return located(newError("operator %s needs BOOLEAN operands, got %s", node.Operator, left.Type()), node)
		}
		if (node.Operator == "&&") != l.Value {
			return l
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		if _, ok := right.(*Boolean); !ok {
			return located(newError("operator %s needs BOOLEAN operands, got %s", node.Operator, right.Type()), node)
		}
		return right
	}

	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	return located(e.EvalInfixExpression(node.Operator, left, right), node)
}

// EvalInfixExpression applies a non-short-circuit binary operator.
func (e *Evaluator) EvalInfixExpression(operator string, left, right Object) Object {
	switch operator {
	case "==":
		return nativeBoolToBooleanObject(ObjectsEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!ObjectsEqual(left, right))
	case "<", ">", "<=", ">=":
		c, ok := compareObjects(left, right)
		if !ok {
			return newError("cannot compare %s %s %s", left.Type(), operator, right.Type())
		}
		return nativeBoolToBooleanObject(compareResult(operator, c))
	case "..":
		l, lok := left.(*Integer)
		r, rok := right.(*Integer)
		if !lok || !rok {
			return newError("range bounds must be INTEGER, got %s..%s", left.Type(), right.Type())
		}
		if r.Value == math.MaxInt64 {
			return newError("range end %d is too large", r.Value)
		}
		return &Range{Start: l.Value, Stop: r.Value + 1, Step: 1}
	}

	if left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ {
		return evalIntegerInfixExpression(operator, left.(*Integer).Value, right.(*Integer).Value)
	}
	// Implicit Int -> Float conversion
	if x, y, ok := numericPair(left, right); ok {
		return evalFloatInfixExpression(operator, x, y)
	}

	switch l := left.(type) {
	case *String:
		if r, ok := right.(*String); ok && operator == "+" {
			return &String{Value: l.Value + r.Value}
		}
	case *List:
		if r, ok := right.(*List); ok && operator == "+" {
			elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			return &List{Elements: append(elements, r.Elements...)}
		}
	}

	if left.Type() != right.Type() {
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	}
	return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
}

func compareResult(operator string, c int) bool {
	switch operator {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	}
	return c >= 0
}

func evalIntegerInfixExpression(operator string, l, r int64) Object {
	switch operator {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newError("modulo by zero")
		}
		return &Integer{Value: l % r}
	case "**":
		if r < 0 {
			return &Float{Value: math.Pow(float64(l), float64(r))}
		}
		return &Integer{Value: intPow(l, r)}
	}
	return newError("unknown operator: INTEGER %s INTEGER", operator)
}

func evalFloatInfixExpression(operator string, l, r float64) Object {
	switch operator {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return &Float{Value: l / r}
	case "%":
		if r == 0 {
			return newError("modulo by zero")
		}
		return &Float{Value: math.Mod(l, r)}
	case "**":
		return &Float{Value: math.Pow(l, r)}
	}
	return newError("unknown operator: FLOAT %s FLOAT", operator)
}

// intPow computes n**m for m >= 0 by repeated squaring.
func intPow(n, m int64) int64 {
	var result int64 = 1
	for m > 0 {
		if m&1 == 1 {
			result *= n
		}
		n *= n
		m >>= 1
	}
	return result
}
