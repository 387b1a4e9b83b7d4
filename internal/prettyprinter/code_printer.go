package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter). Mirrors the parser.
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"..": 5,
	"+":  6,
	"-":  6,
	"*":  7,
	"/":  7,
	"%":  7,
	"**": 8, // Power (right-assoc)
}

const (
	lowestPrec  = 0
	operandPrec = 100 // operands of prefix and postfix forms
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

// Right-associative operators
var rightAssoc = map[string]bool{
	"**": true,
}

// CodePrinter renders AST nodes back into canonical single-line source.
// Parsing the output yields an equal tree.
type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders node as source.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec
		// For same precedence, check associativity
		if prec == parentPrec {
			if isRight && !rightAssoc[e.Operator] {
				needParens = true
			} else if !isRight && rightAssoc[e.Operator] {
				needParens = true
			}
		}
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		if e.Operator == ".." {
			p.write(e.Operator)
		} else {
			p.write(" " + e.Operator + " ")
		}
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		if parentPrec > operandPrec {
			p.write("(")
			defer p.write(")")
		}
		p.write(e.Operator)
		p.printExpr(e.Right, operandPrec, false)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) printList(elements []ast.Expression) {
	for i, el := range elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, lowestPrec, false)
	}
}

func (p *CodePrinter) VisitComprehension(n *ast.Comprehension) {
	if n == nil {
		p.write("nil")
		return
	}
	p.printExpr(n.Mapping, lowestPrec, false)
	for _, clause := range n.Clauses {
		p.write(" ")
		clause.Accept(p)
	}
}

func (p *CodePrinter) VisitClause(n *ast.Clause) {
	p.write("for ")
	if tp, ok := n.Pattern.(*ast.TuplePattern); ok && tp.Token.Type != token.LPAREN && len(tp.Elements) > 1 {
		// Bare form: for k, v in ...
		for i, el := range tp.Elements {
			if i > 0 {
				p.write(", ")
			}
			el.Accept(p)
		}
	} else if n.Pattern != nil {
		n.Pattern.Accept(p)
	} else {
		p.write("<???>")
	}
	p.write(" in ")
	p.printExpr(n.Source, lowestPrec, false)
	for _, cond := range n.Conditions {
		p.write(" if ")
		p.printExpr(cond, lowestPrec, false)
	}
}

func (p *CodePrinter) VisitListComprehension(n *ast.ListComprehension) {
	p.write("[")
	n.Comprehension.Accept(p)
	p.write("]")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	if n.Token.Lexeme != "" {
		p.write(n.Token.Lexeme)
		return
	}
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	if n.Token.Lexeme != "" {
		p.write(n.Token.Lexeme)
		return
	}
	p.write(FormatFloat(n.Value))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNilLiteral(n *ast.NilLiteral) {
	p.write("nil")
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.write("[")
	p.printList(n.Elements)
	p.write("]")
}

func (p *CodePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	p.write("(")
	p.printList(n.Elements)
	if len(n.Elements) == 1 {
		p.write(",")
	}
	p.write(")")
}

func (p *CodePrinter) VisitRecordLiteral(n *ast.RecordLiteral) {
	p.write("{")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		if isIdentifier(f.Key) {
			p.write(f.Key)
		} else {
			p.write(Quote(f.Key))
		}
		p.write(": ")
		p.printExpr(f.Value, lowestPrec, false)
	}
	p.write("}")
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, lowestPrec, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	// When called directly (not via printExpr), use lowest precedence context
	p.printExpr(n, lowestPrec, false)
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Left, operandPrec, false)
	p.write("[")
	p.printExpr(n.Index, lowestPrec, false)
	p.write("]")
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Left, operandPrec, false)
	p.write(".")
	p.write(n.Member.Value)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, operandPrec, false)
	p.write("(")
	p.printList(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitIdentifierPattern(n *ast.IdentifierPattern) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitWildcardPattern(n *ast.WildcardPattern) { p.write("_") }

func (p *CodePrinter) VisitLiteralPattern(n *ast.LiteralPattern) {
	p.write(FormatLiteral(n.Value))
}

func (p *CodePrinter) VisitTuplePattern(n *ast.TuplePattern) {
	p.write("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	if len(n.Elements) == 1 {
		p.write(",")
	}
	p.write(")")
}

func (p *CodePrinter) VisitListPattern(n *ast.ListPattern) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		el.Accept(p)
	}
	p.write("]")
}

// FormatLiteral renders a literal pattern value as source.
func FormatLiteral(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatFloat(v)
	case string:
		return Quote(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}

// FormatFloat renders f so that it reads back as a float, never an integer.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Quote renders s as a double-quoted string literal using only the escapes
// the lexer understands.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" || token.IsKeyword(s) {
		return false
	}
	for i, r := range s {
		letter := r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
