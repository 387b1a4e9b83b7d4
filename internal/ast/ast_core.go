package ast

import "github.com/funvibe/comp/internal/token"

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Expression is a Node that represents a host expression. The comprehension
// machinery treats expressions as opaque and only threads them through.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node that binds names from an element of a source sequence.
type Pattern interface {
	Node
	patternNode()
}

// Visitor walks the AST. Each node's Accept calls the matching method.
type Visitor interface {
	VisitComprehension(c *Comprehension)
	VisitClause(c *Clause)

	VisitIdentifier(i *Identifier)
	VisitIntegerLiteral(l *IntegerLiteral)
	VisitFloatLiteral(l *FloatLiteral)
	VisitStringLiteral(l *StringLiteral)
	VisitBooleanLiteral(l *BooleanLiteral)
	VisitNilLiteral(l *NilLiteral)
	VisitListLiteral(l *ListLiteral)
	VisitTupleLiteral(l *TupleLiteral)
	VisitRecordLiteral(l *RecordLiteral)
	VisitPrefixExpression(e *PrefixExpression)
	VisitInfixExpression(e *InfixExpression)
	VisitIndexExpression(e *IndexExpression)
	VisitMemberExpression(e *MemberExpression)
	VisitCallExpression(e *CallExpression)
	VisitListComprehension(e *ListComprehension)

	VisitIdentifierPattern(p *IdentifierPattern)
	VisitWildcardPattern(p *WildcardPattern)
	VisitLiteralPattern(p *LiteralPattern)
	VisitTuplePattern(p *TuplePattern)
	VisitListPattern(p *ListPattern)
}
