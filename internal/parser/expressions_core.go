package parser

import (
	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP006, p.curToken,
			"expression too complex: nesting depth limit of %d exceeded", MaxRecursionDepth)
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil || p.failed() {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil || p.failed() {
			return nil
		}
		leftExp = nextExp
	}

	return leftExp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseRightAssocInfixExpression parses right-associative operators like **
// 2 ** 3 ** 2 parses as 2 ** (3 ** 2)
func (p *Parser) parseRightAssocInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	// Use precedence - 1 to make it right-associative
	expression.Right = p.parseExpression(precedence - 1)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseGroupedExpression handles (e), the empty tuple () and tuples (a, b).
// A one-element tuple needs a trailing comma: (a,)
func (p *Parser) parseGroupedExpression() ast.Expression {
	startToken := p.curToken

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: startToken, Elements: []ast.Expression{}}
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return exp
	}

	elements := []ast.Expression{exp}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		if p.peekTokenIs(token.RPAREN) {
			break // trailing comma
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TupleLiteral{Token: startToken, Elements: elements}
}
