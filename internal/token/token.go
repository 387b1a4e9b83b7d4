package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string      // Source text of the token
	Literal interface{} // Decoded value: int64, float64, string
	Line    int
	Column  int
	Offset  int // Byte offset of the first character
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	POWER    = "**"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"
	PIPE     = "|"

	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="
	EQ     = "=="
	NOT_EQ = "!="
	AND    = "&&"
	OR     = "||"

	DOT     = "."
	DOT_DOT = ".."

	// Delimiters
	COMMA    = ","
	COLON    = ":"
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	FOR        = "FOR"
	IN         = "IN"
	IF         = "IF"
	TRUE       = "TRUE"
	FALSE      = "FALSE"
	NIL        = "NIL"
	UNDERSCORE = "_"
)

var keywords = map[string]TokenType{
	"for":   FOR,
	"in":    IN,
	"if":    IF,
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
	"_":     UNDERSCORE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether ident is reserved.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
