package ast

import "github.com/funvibe/comp/internal/token"

// --- Binding patterns ---

// IdentifierPattern: x
type IdentifierPattern struct {
	Token token.Token
	Value string
}

func (p *IdentifierPattern) Accept(v Visitor)      { v.VisitIdentifierPattern(p) }
func (p *IdentifierPattern) patternNode()          {}
func (p *IdentifierPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *IdentifierPattern) GetToken() token.Token { return p.Token }

// WildcardPattern: _
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) Accept(v Visitor)      { v.VisitWildcardPattern(p) }
func (p *WildcardPattern) patternNode()          {}
func (p *WildcardPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *WildcardPattern) GetToken() token.Token { return p.Token }

// LiteralPattern: 1, "a", true, nil. Value is int64, float64, string, bool or nil.
type LiteralPattern struct {
	Token token.Token
	Value interface{}
}

func (p *LiteralPattern) Accept(v Visitor)      { v.VisitLiteralPattern(p) }
func (p *LiteralPattern) patternNode()          {}
func (p *LiteralPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *LiteralPattern) GetToken() token.Token { return p.Token }

// TuplePattern: (x, y, _) or the bare form k, v after 'for'
type TuplePattern struct {
	Token    token.Token // '(' or the first element's token
	Elements []Pattern
}

func (p *TuplePattern) Accept(v Visitor)      { v.VisitTuplePattern(p) }
func (p *TuplePattern) patternNode()          {}
func (p *TuplePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *TuplePattern) GetToken() token.Token { return p.Token }

// ListPattern: [a, b]
type ListPattern struct {
	Token    token.Token // '['
	Elements []Pattern
}

func (p *ListPattern) Accept(v Visitor)      { v.VisitListPattern(p) }
func (p *ListPattern) patternNode()          {}
func (p *ListPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ListPattern) GetToken() token.Token { return p.Token }

// BoundNames returns the names a pattern binds, left to right.
func BoundNames(p Pattern) []string {
	var names []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *IdentifierPattern:
			names = append(names, p.Value)
		case *TuplePattern:
			for _, el := range p.Elements {
				walk(el)
			}
		case *ListPattern:
			for _, el := range p.Elements {
				walk(el)
			}
		}
	}
	walk(p)
	return names
}
