package parser

import (
	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/token"
)

// ParseComprehension parses
//
//	Comprehension := Mapping Clause Clause*
//	Clause        := "for" Pattern "in" Expression Condition*
//	Condition     := "if" Expression
//
// The first clause is mandatory. Further clauses and conditions are parsed
// until the first one that fails; the parser is left just before it, so the
// caller decides what to do with Remaining tokens. On failure it returns nil
// and Err reports the reason.
func (p *Parser) ParseComprehension() *ast.Comprehension {
	p.err = nil
	p.swallowed = nil

	if p.curTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP005, p.curToken, "expected comprehension, got end of input")
		return nil
	}

	mappingToken := p.curToken
	mapping := p.parseExpression(LOWEST)
	if mapping == nil {
		return nil
	}
	return p.parseClauses(mappingToken, mapping)
}

// parseClauses parses the clause list following a mapping. curToken is the
// last token of the mapping.
func (p *Parser) parseClauses(mappingToken token.Token, mapping ast.Expression) *ast.Comprehension {
	p.swallowed = nil

	if !p.peekTokenIs(token.FOR) {
		p.errorf(diagnostics.ErrP002, p.peekToken, "expected 'for' after mapping expression, got %s",
			describe(p.peekToken))
		return nil
	}
	first := p.parseClause()
	if first == nil {
		return nil
	}

	clauses := []*ast.Clause{first}
	clauses = append(clauses, zeroOrMore(p, func() (*ast.Clause, bool) {
		if !p.peekTokenIs(token.FOR) {
			return nil, false
		}
		clause := p.parseClause()
		return clause, clause != nil
	})...)

	return &ast.Comprehension{Token: mappingToken, Mapping: mapping, Clauses: clauses}
}

// parseClause parses one clause. peekToken is 'for'.
func (p *Parser) parseClause() *ast.Clause {
	p.nextToken()
	clause := &ast.Clause{Token: p.curToken}

	p.nextToken()
	if p.curTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP004, p.curToken, "expected binding pattern after 'for', got end of input")
		return nil
	}
	clause.Pattern = p.parseClausePattern()
	if clause.Pattern == nil {
		return nil
	}

	if !p.peekTokenIs(token.IN) {
		p.errorf(diagnostics.ErrP003, p.peekToken, "expected 'in' after pattern, got %s", describe(p.peekToken))
		return nil
	}
	p.nextToken()

	p.nextToken()
	clause.Source = p.parseExpression(LOWEST)
	if clause.Source == nil {
		return nil
	}

	clause.Conditions = zeroOrMore(p, p.parseCondition)
	if clause.Conditions == nil {
		clause.Conditions = []ast.Expression{}
	}
	return clause
}

// parseCondition parses one `if expr` filter. A missing 'if' fails without
// recording an error.
func (p *Parser) parseCondition() (ast.Expression, bool) {
	if !p.peekTokenIs(token.IF) {
		return nil, false
	}
	p.nextToken()
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	return cond, cond != nil
}

// ParseExpression parses a single host expression.
func (p *Parser) ParseExpression() ast.Expression {
	p.err = nil
	p.swallowed = nil

	if p.curTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP005, p.curToken, "expected expression, got end of input")
		return nil
	}
	return p.parseExpression(LOWEST)
}
