package parser

import (
	"fmt"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/config"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/pipeline"
	"github.com/funvibe/comp/internal/token"
)

const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // ==, !=
	LESSGREATER // <, >, <=, >=
	RANGE       // ..
	SUM         // +, -
	PRODUCT     // *, /, %
	POWER       // **
	PREFIX      // -x, !x
	CALL        // f(x), a[i], a.b
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.DOT_DOT:  RANGE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.POWER:    POWER,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

// MaxRecursionDepth is the deepest expression nesting the parser accepts.
const MaxRecursionDepth = config.MaxRecursionDepth

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream *token.Stream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int

	// err is the first hard error of the current parse attempt. Once set,
	// parse functions unwind by returning nil.
	err *diagnostics.DiagnosticError
	// swallowed is the error of the last optional sub-parse that was rolled
	// back. It only enriches the trailing-input diagnostic.
	swallowed *diagnostics.DiagnosticError
}

// cursor is a saved parser position.
type cursor struct {
	cur, peek token.Token
	mark      int
	err       *diagnostics.DiagnosticError
}

func New(stream *token.Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NIL:      p.parseNil,
		token.MINUS:    p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseListLiteral,
		token.LBRACE:   p.parseRecordLiteral,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.OR:       p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.DOT_DOT:  p.parseInfixExpression,
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.POWER:    p.parseRightAssocInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:      p.parseMemberExpression,
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has type t, otherwise records a
// P001 error.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(diagnostics.ErrP001, t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// failed reports whether the current attempt already hit a hard error.
func (p *Parser) failed() bool {
	return p.err != nil
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = diagnostics.NewError(code, tok, format, args...)
}

func (p *Parser) peekError(code diagnostics.ErrorCode, t token.TokenType) {
	p.errorf(code, p.peekToken, "expected %s, got %s", describeType(t), describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(diagnostics.ErrP005, tok, "expected expression, got %s", describe(tok))
}

func (p *Parser) save() cursor {
	return cursor{cur: p.curToken, peek: p.peekToken, mark: p.stream.Mark(), err: p.err}
}

func (p *Parser) restore(c cursor) {
	p.curToken = c.cur
	p.peekToken = c.peek
	p.stream.Reset(c.mark)
	p.err = c.err
}

// attempt runs an optional sub-parse. When parse reports failure, the parser
// is rolled back to where the attempt began and the failure does not
// propagate; it is remembered only for diagnostics.
func attempt[T any](p *Parser, parse func() (T, bool)) (T, bool) {
	saved := p.save()
	result, ok := parse()
	if ok && !p.failed() {
		return result, true
	}
	if p.err != nil {
		p.swallowed = p.err
	}
	p.restore(saved)
	var zero T
	return zero, false
}

// zeroOrMore repeats an optional sub-parse until its first failure.
func zeroOrMore[T any](p *Parser, parse func() (T, bool)) []T {
	var items []T
	for {
		item, ok := attempt(p, parse)
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

// Err returns the hard error of the last parse, if any.
func (p *Parser) Err() *diagnostics.DiagnosticError {
	return p.err
}

// Remaining returns the tokens after the last consumed one, EOF excluded.
func (p *Parser) Remaining() []token.Token {
	var rest []token.Token
	if p.peekToken.Type != token.EOF {
		rest = append(rest, p.peekToken)
	}
	for _, tok := range p.stream.Peek(p.stream.Len()) {
		if tok.Type == token.EOF {
			break
		}
		rest = append(rest, tok)
	}
	return rest
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal token %q", tok.Lexeme)
	case token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Lexeme)
	case token.INT, token.FLOAT:
		return fmt.Sprintf("number %s", tok.Lexeme)
	case token.STRING:
		return fmt.Sprintf("string %s", tok.Lexeme)
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

func describeType(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	case token.FOR, token.IN, token.IF:
		return fmt.Sprintf("'%s'", keywordLexeme(t))
	}
	return fmt.Sprintf("'%s'", string(t))
}

func keywordLexeme(t token.TokenType) string {
	switch t {
	case token.FOR:
		return config.ForKeyword
	case token.IN:
		return config.InKeyword
	case token.IF:
		return config.IfKeyword
	}
	return string(t)
}
