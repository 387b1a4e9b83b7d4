package parser

import (
	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/token"
)

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

// parseExpressionList parses comma-separated expressions up to end. curToken
// is the opening delimiter; on success curToken is end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		if p.peekTokenIs(end) {
			break // trailing comma
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil, false
		}
		list = append(list, el)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
