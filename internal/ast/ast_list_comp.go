package ast

import "github.com/funvibe/comp/internal/token"

// Comprehension is a mapping expression followed by one or more generator
// clauses, outermost first.
// Syntax: mapping for pattern in source [if condition]* (for ...)*
// Example: x * 2 for x in xs if x > 1
type Comprehension struct {
	Token   token.Token // First token of the mapping expression
	Mapping Expression
	Clauses []*Clause // len(Clauses) >= 1
}

func (c *Comprehension) Accept(v Visitor)     { v.VisitComprehension(c) }
func (c *Comprehension) TokenLiteral() string { return c.Token.Lexeme }
func (c *Comprehension) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// Innermost returns the last clause, the one whose body yields the mapping.
func (c *Comprehension) Innermost() *Clause {
	return c.Clauses[len(c.Clauses)-1]
}

// Clause is one `for pattern in source [if condition]*` unit.
type Clause struct {
	Token      token.Token // The 'for' token
	Pattern    Pattern
	Source     Expression
	Conditions []Expression // Zero or more filters, evaluated in order
}

func (c *Clause) Accept(v Visitor)     { v.VisitClause(c) }
func (c *Clause) TokenLiteral() string { return c.Token.Lexeme }
func (c *Clause) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// ListComprehension is a bracketed comprehension used inside an expression:
// [x * 2 for x in xs]. It evaluates to a lazy sequence.
type ListComprehension struct {
	Token         token.Token // The '[' token
	Comprehension *Comprehension
}

func (lc *ListComprehension) Accept(v Visitor)     { v.VisitListComprehension(lc) }
func (lc *ListComprehension) expressionNode()      {}
func (lc *ListComprehension) TokenLiteral() string { return lc.Token.Lexeme }
func (lc *ListComprehension) GetToken() token.Token {
	if lc == nil {
		return token.Token{}
	}
	return lc.Token
}
