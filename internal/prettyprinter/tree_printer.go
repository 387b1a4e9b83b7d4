package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/comp/internal/ast"
)

// --- Tree Printer (Output shows the AST structure) ---

// TreePrinter dumps nodes one per line, indented by depth.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// Tree renders node as an indented structure dump.
func Tree(node ast.Node) string {
	p := NewTreePrinter()
	node.Accept(p)
	return p.String()
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// child prints a labelled sub-node one level deeper.
func (p *TreePrinter) child(label string, n ast.Node) {
	p.indent++
	p.line("%s:", label)
	p.indent++
	if n == nil {
		p.line("<nil>")
	} else {
		n.Accept(p)
	}
	p.indent -= 2
}

func (p *TreePrinter) children(nodes ...ast.Node) {
	p.indent++
	for _, n := range nodes {
		n.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitComprehension(n *ast.Comprehension) {
	p.line("Comprehension (%d:%d)", n.Token.Line, n.Token.Column)
	p.child("Mapping", n.Mapping)
	p.indent++
	for _, c := range n.Clauses {
		c.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitClause(n *ast.Clause) {
	p.line("Clause (%d:%d)", n.Token.Line, n.Token.Column)
	p.child("Pattern", n.Pattern)
	p.child("Source", n.Source)
	for i, cond := range n.Conditions {
		p.child(fmt.Sprintf("If[%d]", i), cond)
	}
}

func (p *TreePrinter) VisitListComprehension(n *ast.ListComprehension) {
	p.line("ListComprehension")
	p.children(n.Comprehension)
}

func (p *TreePrinter) VisitIdentifier(n *ast.Identifier) { p.line("Identifier %s", n.Value) }

func (p *TreePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) { p.line("Integer %d", n.Value) }

func (p *TreePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.line("Float %s", FormatFloat(n.Value))
}

func (p *TreePrinter) VisitStringLiteral(n *ast.StringLiteral) { p.line("String %s", Quote(n.Value)) }

func (p *TreePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) { p.line("Boolean %t", n.Value) }

func (p *TreePrinter) VisitNilLiteral(n *ast.NilLiteral) { p.line("Nil") }

func (p *TreePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.line("List (%d)", len(n.Elements))
	p.indent++
	for _, el := range n.Elements {
		el.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitTupleLiteral(n *ast.TupleLiteral) {
	p.line("Tuple (%d)", len(n.Elements))
	p.indent++
	for _, el := range n.Elements {
		el.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitRecordLiteral(n *ast.RecordLiteral) {
	p.line("Record (%d)", len(n.Fields))
	for _, f := range n.Fields {
		p.child(f.Key, f.Value)
	}
}

func (p *TreePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.line("Prefix %s", n.Operator)
	p.children(n.Right)
}

func (p *TreePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.line("Infix %s", n.Operator)
	p.children(n.Left, n.Right)
}

func (p *TreePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.line("Index")
	p.children(n.Left, n.Index)
}

func (p *TreePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.line("Member .%s", n.Member.Value)
	p.children(n.Left)
}

func (p *TreePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.line("Call (%d args)", len(n.Arguments))
	p.child("Function", n.Function)
	for i, arg := range n.Arguments {
		p.child(fmt.Sprintf("Arg[%d]", i), arg)
	}
}

func (p *TreePrinter) VisitIdentifierPattern(n *ast.IdentifierPattern) {
	p.line("IdentifierPattern %s", n.Value)
}

func (p *TreePrinter) VisitWildcardPattern(n *ast.WildcardPattern) { p.line("WildcardPattern") }

func (p *TreePrinter) VisitLiteralPattern(n *ast.LiteralPattern) {
	p.line("LiteralPattern %s", FormatLiteral(n.Value))
}

func (p *TreePrinter) VisitTuplePattern(n *ast.TuplePattern) {
	p.line("TuplePattern (%d)", len(n.Elements))
	p.indent++
	for _, el := range n.Elements {
		el.Accept(p)
	}
	p.indent--
}

func (p *TreePrinter) VisitListPattern(n *ast.ListPattern) {
	p.line("ListPattern (%d)", len(n.Elements))
	p.indent++
	for _, el := range n.Elements {
		el.Accept(p)
	}
	p.indent--
}
