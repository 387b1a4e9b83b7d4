package parser

import (
	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(int64)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLiteral{Token: p.curToken, Value: p.curToken.Literal.(float64)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNil() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parseListLiteral parses [a, b, c] and the bracketed comprehension
// [M for p in s if c].
func (p *Parser) parseListLiteral() ast.Expression {
	startToken := p.curToken

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLiteral{Token: startToken, Elements: []ast.Expression{}}
	}

	p.nextToken()
	firstToken := p.curToken
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.FOR) {
		return p.parseListComprehension(startToken, firstToken, first)
	}

	elements := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		if p.peekTokenIs(token.RBRACKET) {
			break // trailing comma
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListLiteral{Token: startToken, Elements: elements}
}

// parseListComprehension continues after the mapping of a bracketed
// comprehension. curToken is the last token of the mapping.
func (p *Parser) parseListComprehension(startToken, mappingToken token.Token, mapping ast.Expression) ast.Expression {
	comp := p.parseClauses(mappingToken, mapping)
	if comp == nil {
		return nil
	}
	if !p.peekTokenIs(token.RBRACKET) {
		if p.swallowed != nil {
			p.err = p.swallowed
			return nil
		}
		p.peekError(diagnostics.ErrP001, token.RBRACKET)
		return nil
	}
	p.nextToken()
	return &ast.ListComprehension{Token: startToken, Comprehension: comp}
}

// parseRecordLiteral parses {name: expr, "key": expr}.
func (p *Parser) parseRecordLiteral() ast.Expression {
	rec := &ast.RecordLiteral{Token: p.curToken, Fields: []ast.RecordField{}}

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return rec
	}

	for {
		p.nextToken()
		var key string
		switch p.curToken.Type {
		case token.IDENT:
			key = p.curToken.Lexeme
		case token.STRING:
			key = p.curToken.Literal.(string)
		default:
			p.errorf(diagnostics.ErrP001, p.curToken, "expected record key, got %s", describe(p.curToken))
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		rec.Fields = append(rec.Fields, ast.RecordField{Key: key, Value: value})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ,
		if p.peekTokenIs(token.RBRACE) {
			break // trailing comma
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return rec
}
