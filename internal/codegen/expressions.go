package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/config"
	"github.com/funvibe/comp/internal/prettyprinter"
)

// Go operator precedence; primaries bind tightest.
const (
	unaryPrec   = 6
	primaryPrec = 7
)

var goPrecedences = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func (e *emitter) expr(node ast.Expression) string {
	s, _ := e.operand(node)
	return s
}

// operand renders node and reports the precedence of its outermost
// operator, so callers can decide on parentheses.
func (e *emitter) operand(node ast.Expression) (string, int) {
	switch n := node.(type) {
	case *ast.Identifier:
		return ident(n.Value), primaryPrec
	case *ast.IntegerLiteral:
		return strconv.FormatInt(n.Value, 10), primaryPrec
	case *ast.FloatLiteral:
		return prettyprinter.FormatFloat(n.Value), primaryPrec
	case *ast.StringLiteral:
		return strconv.Quote(n.Value), primaryPrec
	case *ast.BooleanLiteral:
		return strconv.FormatBool(n.Value), primaryPrec
	case *ast.NilLiteral:
		return "nil", primaryPrec
	case *ast.ListLiteral:
		return "[]" + e.opts.ElemType + "{" + e.exprList(n.Elements) + "}", primaryPrec
	case *ast.TupleLiteral:
		return e.fail(n, "tuples have no Go rendering"), primaryPrec
	case *ast.RecordLiteral:
		return e.fail(n, "records have no Go rendering"), primaryPrec
	case *ast.PrefixExpression:
		right, prec := e.operand(n.Right)
		if prec < primaryPrec {
			right = "(" + right + ")"
		}
		return n.Operator + right, unaryPrec
	case *ast.InfixExpression:
		return e.infix(n)
	case *ast.IndexExpression:
		return e.primary(n.Left) + "[" + e.expr(n.Index) + "]", primaryPrec
	case *ast.MemberExpression:
		return e.primary(n.Left) + "." + n.Member.Value, primaryPrec
	case *ast.CallExpression:
		return e.call(n), primaryPrec
	case *ast.ListComprehension:
		return e.comprehension(n.Comprehension, e.opts.ElemType), primaryPrec
	case nil:
		return "", primaryPrec
	}
	return e.fail(node, "%T has no Go rendering", node), primaryPrec
}

func (e *emitter) primary(node ast.Expression) string {
	s, prec := e.operand(node)
	if prec < primaryPrec {
		return "(" + s + ")"
	}
	return s
}

func (e *emitter) infix(n *ast.InfixExpression) (string, int) {
	switch n.Operator {
	case "**":
		return e.fail(n, "operator ** has no Go rendering"), primaryPrec
	case "..":
		return e.fail(n, "ranges can only be rendered as a clause source"), primaryPrec
	}
	prec, ok := goPrecedences[n.Operator]
	if !ok {
		return e.fail(n, "operator %s has no Go rendering", n.Operator), primaryPrec
	}
	left, lp := e.operand(n.Left)
	if lp < prec {
		left = "(" + left + ")"
	}
	right, rp := e.operand(n.Right)
	if rp <= prec {
		right = "(" + right + ")"
	}
	return left + " " + n.Operator + " " + right, prec
}

func (e *emitter) exprList(exps []ast.Expression) string {
	parts := make([]string, len(exps))
	for i, exp := range exps {
		parts[i] = e.expr(exp)
	}
	return strings.Join(parts, ", ")
}

// builtin reports the builtin a call refers to, if the callee is a builtin
// name not shadowed by a parameter.
func (e *emitter) builtin(n *ast.CallExpression) (string, bool) {
	id, ok := n.Function.(*ast.Identifier)
	if !ok {
		return "", false
	}
	if _, shadowed := e.params[id.Value]; shadowed {
		return "", false
	}
	return id.Value, true
}

func (e *emitter) call(n *ast.CallExpression) string {
	name, ok := e.builtin(n)
	if !ok {
		return e.primary(n.Function) + "(" + e.exprList(n.Arguments) + ")"
	}
	args := e.exprList(n.Arguments)
	switch name {
	case config.LenFuncName:
		return "len(" + args + ")"
	case config.MinFuncName, config.MaxFuncName:
		if len(n.Arguments) < 2 {
			return e.fail(n, "%s() over a single sequence has no Go rendering", name)
		}
		return name + "(" + args + ")"
	case config.StrFuncName:
		e.use("fmt")
		return "fmt.Sprint(" + args + ")"
	case config.UpperFuncName:
		e.use("strings")
		return "strings.ToUpper(" + args + ")"
	case config.LowerFuncName:
		e.use("strings")
		return "strings.ToLower(" + args + ")"
	case config.IntFuncName:
		return "int(" + args + ")"
	case config.FloatFuncName:
		return "float64(" + args + ")"
	case config.RangeFuncName, config.CountFuncName:
		return e.sequence(n, name)
	case config.AbsFuncName, config.SumFuncName, config.ListFuncName, config.EnumerateFuncName,
		config.ZipFuncName, config.KeysFuncName, config.ValuesFuncName, config.QueryFuncName:
		return e.fail(n, "%s() has no Go rendering", name)
	}
	return ident(name) + "(" + args + ")"
}

// sequence renders range(...) and count(...) calls over ElemType.
func (e *emitter) sequence(n *ast.CallExpression, name string) string {
	elem := e.opts.ElemType
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = e.expr(a)
	}
	switch {
	case name == config.RangeFuncName && len(args) == 1:
		return fmt.Sprintf("seq.Step[%s](0, %s, 1)", elem, args[0])
	case name == config.RangeFuncName && len(args) == 2:
		return fmt.Sprintf("seq.Step[%s](%s, %s, 1)", elem, args[0], args[1])
	case name == config.RangeFuncName && len(args) == 3:
		return fmt.Sprintf("seq.Step[%s](%s, %s, %s)", elem, args[0], args[1], args[2])
	case name == config.CountFuncName && len(args) == 0:
		return fmt.Sprintf("seq.Count[%s](0, 1)", elem)
	case name == config.CountFuncName && len(args) == 1:
		return fmt.Sprintf("seq.Count[%s](%s, 1)", elem, args[0])
	case name == config.CountFuncName && len(args) == 2:
		return fmt.Sprintf("seq.Count[%s](%s, %s)", elem, args[0], args[1])
	}
	return e.fail(n, "wrong number of arguments to %s()", name)
}

// source renders a clause source as an iter.Seq.
func (e *emitter) source(node ast.Expression) string {
	switch n := node.(type) {
	case *ast.ListLiteral:
		e.use("slices")
		return "slices.Values(" + e.expr(n) + ")"
	case *ast.InfixExpression:
		if n.Operator == ".." {
			return fmt.Sprintf("seq.Range[%s](%s, %s)", e.opts.ElemType, e.expr(n.Left), e.expr(n.Right))
		}
	case *ast.CallExpression:
		if name, ok := e.builtin(n); ok && (name == config.RangeFuncName || name == config.CountFuncName) {
			return e.sequence(n, name)
		}
	case *ast.ListComprehension:
		return e.expr(n)
	case *ast.Identifier:
		if typ, ok := e.params[n.Value]; ok && strings.HasPrefix(typ, "iter.Seq[") {
			return ident(n.Value)
		}
	}
	e.use("slices")
	return "slices.Values(" + e.expr(node) + ")"
}
