package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/comp/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// Tokenize reads the whole input, EOF included.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = l.illegal("unexpected '=' (did you mean '=='?)")
		}
	case '+':
		tok = l.newToken(token.PLUS)
	case '-':
		tok = l.newToken(token.MINUS)
	case '/':
		tok = l.newToken(token.SLASH)
	case '%':
		tok = l.newToken(token.PERCENT)
	case '*':
		if l.peekChar() == '*' {
			tok = l.twoCharToken(token.POWER)
		} else {
			tok = l.newToken(token.ASTERISK)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = l.newToken(token.BANG)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else {
			tok = l.newToken(token.LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = l.newToken(token.GT)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(token.AND)
		} else {
			tok = l.illegal("unexpected '&' (did you mean '&&'?)")
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(token.OR)
		} else {
			tok = l.newToken(token.PIPE)
		}
	case '.':
		if l.peekChar() == '.' {
			tok = l.twoCharToken(token.DOT_DOT)
		} else {
			tok = l.newToken(token.DOT)
		}
	case ',':
		tok = l.newToken(token.COMMA)
	case ':':
		tok = l.newToken(token.COLON)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case '"':
		return l.readString()
	case '`':
		return l.readRawString()
	case 0:
		tok.Lexeme = ""
		tok.Type = token.EOF
		tok.Line = l.line
		tok.Column = l.column
		tok.Offset = len(l.input)
		return tok
	default:
		if isLetter(l.ch) {
			startLine, startCol, startPos := l.line, l.column, l.position
			lexeme := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(lexeme),
				Lexeme:  lexeme,
				Literal: lexeme,
				Line:    startLine,
				Column:  startCol,
				Offset:  startPos,
			}
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.illegal(fmt.Sprintf("unexpected character %q", l.ch))
	}

	l.readChar()
	return tok
}

// readString reads a double-quoted string and resolves escape sequences.
// The closing quote is consumed.
func (l *Lexer) readString() token.Token {
	startLine, startCol, startPos := l.line, l.column, l.position
	var b strings.Builder

	for {
		l.readChar()
		if l.ch == 0 {
			return token.Token{
				Type:    token.ILLEGAL,
				Lexeme:  l.input[startPos:],
				Literal: "unterminated string literal",
				Line:    startLine,
				Column:  startCol,
				Offset:  startPos,
			}
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'u':
				val, ok := l.readHexEscape(4)
				if !ok {
					b.WriteString(`\u`)
					continue
				}
				b.WriteRune(rune(val))
			case 0:
				continue
			default:
				// Unknown escape - keep both
				b.WriteByte('\\')
				b.WriteRune(l.ch)
			}
			continue
		}
		b.WriteRune(l.ch)
	}

	l.readChar() // closing quote
	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[startPos:l.position],
		Literal: b.String(),
		Line:    startLine,
		Column:  startCol,
		Offset:  startPos,
	}
}

func (l *Lexer) readHexEscape(n int) (int64, bool) {
	var val int64
	for i := 0; i < n; i++ {
		if !isHexDigit(l.peekChar()) {
			return 0, false
		}
		l.readChar()
		d, _ := strconv.ParseInt(string(l.ch), 16, 64)
		val = val*16 + d
	}
	return val, true
}

// readRawString reads a backtick-delimited raw string. No escape sequences
// are processed.
func (l *Lexer) readRawString() token.Token {
	startLine, startCol, startPos := l.line, l.column, l.position
	for {
		l.readChar()
		if l.ch == 0 {
			return token.Token{
				Type:    token.ILLEGAL,
				Lexeme:  l.input[startPos:],
				Literal: "unterminated raw string literal",
				Line:    startLine,
				Column:  startCol,
				Offset:  startPos,
			}
		}
		if l.ch == '`' {
			break
		}
	}
	content := l.input[startPos+1 : l.position]
	l.readChar()
	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[startPos:l.position],
		Literal: content,
		Line:    startLine,
		Column:  startCol,
		Offset:  startPos,
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	base := 10
	isFloat := false

	// Check for base prefixes: 0x, 0b, 0o
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			l.readChar()
			l.readChar()
		}
	}

	for {
		if base == 16 {
			if !isHexDigit(l.ch) && l.ch != '_' {
				break
			}
		} else if !isDigit(l.ch) && l.ch != '_' {
			break
		}
		l.readChar()
	}

	// A dot followed by a digit makes a float; "1..3" stays an integer
	// followed by a range operator.
	if base == 10 && l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if base == 10 && (l.ch == 'e' || l.ch == 'E') {
		next := l.peekChar()
		if isDigit(next) || next == '-' || next == '+' {
			isFloat = true
			l.readChar()
			if l.ch == '-' || l.ch == '+' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	lexeme := l.input[position:l.position]
	tok := token.Token{Lexeme: lexeme, Line: startLine, Column: startCol, Offset: position}

	if isFloat {
		val, err := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
		if err != nil {
			tok.Type = token.ILLEGAL
			tok.Literal = err.Error()
			return tok
		}
		tok.Type = token.FLOAT
		tok.Literal = val
		return tok
	}

	digits := strings.ReplaceAll(lexeme, "_", "")
	if base != 10 {
		digits = digits[2:]
	}
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		tok.Type = token.ILLEGAL
		tok.Literal = fmt.Sprintf("invalid integer literal %s", lexeme)
		return tok
	}
	tok.Type = token.INT
	tok.Literal = val
	return tok
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	literal := string(l.ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: l.line, Column: l.column, Offset: l.position}
}

// twoCharToken consumes the peeked character and builds a token spanning both.
func (l *Lexer) twoCharToken(tokenType token.TokenType) token.Token {
	line, col, pos := l.line, l.column, l.position
	l.readChar()
	lexeme := l.input[pos:l.readPosition]
	return token.Token{Type: tokenType, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col, Offset: pos}
}

func (l *Lexer) illegal(msg string) token.Token {
	return token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Literal: msg, Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Handle comments
		if l.ch == '/' {
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar() // consume /
				l.readChar() // consume *
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar() // consume *
						l.readChar() // consume /
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}
