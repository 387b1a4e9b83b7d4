package lexer

import (
	"testing"

	"github.com/funvibe/comp/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `x ** 2 for (x, _) in xs if x != 3 && !done
[1..10] {a: 1.5} p.name <= >= == || | % / - + "s\n" ` + "`raw\\n`"

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.IDENT, "x"},
		{token.POWER, "**"},
		{token.INT, "2"},
		{token.FOR, "for"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.UNDERSCORE, "_"},
		{token.RPAREN, ")"},
		{token.IN, "in"},
		{token.IDENT, "xs"},
		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.INT, "3"},
		{token.AND, "&&"},
		{token.BANG, "!"},
		{token.IDENT, "done"},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.DOT_DOT, ".."},
		{token.INT, "10"},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.FLOAT, "1.5"},
		{token.RBRACE, "}"},
		{token.IDENT, "p"},
		{token.DOT, "."},
		{token.IDENT, "name"},
		{token.LTE, "<="},
		{token.GTE, ">="},
		{token.EQ, "=="},
		{token.OR, "||"},
		{token.PIPE, "|"},
		{token.PERCENT, "%"},
		{token.SLASH, "/"},
		{token.MINUS, "-"},
		{token.PLUS, "+"},
		{token.STRING, `"s\n"`},
		{token.STRING, "`raw\\n`"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"42", int64(42)},
		{"1_000", int64(1000)},
		{"0x1F", int64(31)},
		{"0b101", int64(5)},
		{"0o17", int64(15)},
		{"2.5", 2.5},
		{"1e3", 1000.0},
		{"2.5e-1", 0.25},
		{`"a\tb\"c\\"`, "a\tb\"c\\"},
		{`"é"`, "é"},
		{`"\q"`, `\q`},
		{"`a\\nb`", `a\nb`},
		{"héllo", "héllo"},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Literal != tt.expected {
			t.Errorf("%s: expected literal %#v, got %#v", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestRangeAfterInteger(t *testing.T) {
	tokens := New("1..3").Tokenize()
	types := []token.TokenType{token.INT, token.DOT_DOT, token.INT, token.EOF}
	if len(tokens) != len(types) {
		t.Fatalf("expected %d tokens, got %d", len(types), len(tokens))
	}
	for i, tt := range types {
		if tokens[i].Type != tt {
			t.Errorf("token %d: expected %s, got %s", i, tt, tokens[i].Type)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "x for x\n  in xs // trailing\n/* block\n comment */ if é"
	expected := []struct {
		lexeme         string
		line, col, off int
	}{
		{"x", 1, 1, 0},
		{"for", 1, 3, 2},
		{"x", 1, 7, 6},
		{"in", 2, 3, 10},
		{"xs", 2, 6, 13},
		{"if", 4, 13, 49},
		{"é", 4, 16, 52},
	}

	l := New(input)
	for _, want := range expected {
		tok := l.NextToken()
		if tok.Lexeme != want.lexeme || tok.Line != want.line || tok.Column != want.col || tok.Offset != want.off {
			t.Errorf("expected %q at %d:%d (offset %d), got %q at %d:%d (offset %d)",
				want.lexeme, want.line, want.col, want.off, tok.Lexeme, tok.Line, tok.Column, tok.Offset)
		}
	}
	if tok := l.NextToken(); tok.Type != token.EOF {
		t.Errorf("expected EOF, got %s", tok.Type)
	}
}

func TestIllegal(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"x = 1", "unexpected '=' (did you mean '=='?)"},
		{"a & b", "unexpected '&' (did you mean '&&'?)"},
		{"#", `unexpected character '#'`},
		{`"open`, "unterminated string literal"},
		{"`open", "unterminated raw string literal"},
		{"99999999999999999999", "invalid integer literal 99999999999999999999"},
	}

	for _, tt := range tests {
		var illegal *token.Token
		for _, tok := range New(tt.input).Tokenize() {
			if tok.Type == token.ILLEGAL {
				illegal = &tok
				break
			}
		}
		if illegal == nil {
			t.Errorf("%s: expected an ILLEGAL token", tt.input)
			continue
		}
		if illegal.Literal != tt.message {
			t.Errorf("%s: expected message %q, got %q", tt.input, tt.message, illegal.Literal)
		}
	}
}
