package parser

import (
	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/token"
)

// parseClausePattern parses the binding pattern after 'for'. An
// unparenthesized comma list, as in `for k, v in pairs`, is a tuple pattern.
func (p *Parser) parseClausePattern() ast.Pattern {
	first := p.parsePattern()
	if first == nil || !p.peekTokenIs(token.COMMA) {
		return first
	}

	tuple := &ast.TuplePattern{Token: first.GetToken(), Elements: []ast.Pattern{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		tuple.Elements = append(tuple.Elements, el)
	}
	return tuple
}

// parsePattern parses one pattern starting at curToken.
func (p *Parser) parsePattern() ast.Pattern {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP006, p.curToken,
			"pattern too complex: nesting depth limit of %d exceeded", MaxRecursionDepth)
		return nil
	}

	pat := p.parseSinglePattern()
	if pat == nil {
		return nil
	}
	if p.peekTokenIs(token.PIPE) {
		p.errorf(diagnostics.ErrP004, p.peekToken,
			"alternative patterns are not allowed in a comprehension clause")
		return nil
	}
	return pat
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	tok := p.curToken
	switch tok.Type {
	case token.IDENT:
		return &ast.IdentifierPattern{Token: tok, Value: tok.Lexeme}
	case token.UNDERSCORE:
		return &ast.WildcardPattern{Token: tok}
	case token.INT, token.FLOAT, token.STRING:
		return &ast.LiteralPattern{Token: tok, Value: tok.Literal}
	case token.TRUE, token.FALSE:
		return &ast.LiteralPattern{Token: tok, Value: tok.Type == token.TRUE}
	case token.NIL:
		return &ast.LiteralPattern{Token: tok, Value: nil}
	case token.MINUS:
		return p.parseNegativeLiteralPattern()
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACKET:
		return p.parseListPattern()
	}
	p.errorf(diagnostics.ErrP004, tok, "expected binding pattern, got %s", describe(tok))
	return nil
}

func (p *Parser) parseNegativeLiteralPattern() ast.Pattern {
	minus := p.curToken
	switch p.peekToken.Type {
	case token.INT:
		p.nextToken()
		return &ast.LiteralPattern{Token: minus, Value: -p.curToken.Literal.(int64)}
	case token.FLOAT:
		p.nextToken()
		return &ast.LiteralPattern{Token: minus, Value: -p.curToken.Literal.(float64)}
	}
	p.errorf(diagnostics.ErrP004, p.peekToken, "expected number after '-' in pattern, got %s", describe(p.peekToken))
	return nil
}

// parseTuplePattern parses (), (p) and (p, q, ...). A parenthesized single
// pattern is the pattern itself.
func (p *Parser) parseTuplePattern() ast.Pattern {
	startToken := p.curToken
	elements, trailingComma, ok := p.parsePatternList(token.RPAREN)
	if !ok {
		return nil
	}
	if len(elements) == 1 && !trailingComma {
		return elements[0]
	}
	return &ast.TuplePattern{Token: startToken, Elements: elements}
}

func (p *Parser) parseListPattern() ast.Pattern {
	startToken := p.curToken
	elements, _, ok := p.parsePatternList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ListPattern{Token: startToken, Elements: elements}
}

func (p *Parser) parsePatternList(end token.TokenType) ([]ast.Pattern, bool, bool) {
	elements := []ast.Pattern{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return elements, false, true
	}

	trailingComma := false
	for {
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil, false, false
		}
		elements = append(elements, el)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ,
		if p.peekTokenIs(end) {
			trailingComma = true
			break
		}
	}

	if !p.peekTokenIs(end) {
		p.errorf(diagnostics.ErrP004, p.peekToken, "expected %s to close pattern, got %s",
			describeType(end), describe(p.peekToken))
		return nil, false, false
	}
	p.nextToken()
	return elements, trailingComma, true
}
