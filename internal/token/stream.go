package token

// Stream is a slice-backed token sequence with a movable cursor. The cursor
// can be saved and restored, which is how the parser backtracks out of an
// optional sub-parse.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF})
	}
	return &Stream{tokens: tokens}
}

// Next returns the token under the cursor and advances. At the end of input
// it keeps returning EOF.
func (s *Stream) Next() Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Peek returns up to n tokens starting at the cursor without consuming them.
func (s *Stream) Peek(n int) []Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

// Mark returns the current cursor.
func (s *Stream) Mark() int { return s.pos }

// Reset moves the cursor back to a position returned by Mark.
func (s *Stream) Reset(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark > len(s.tokens)-1 {
		mark = len(s.tokens) - 1
	}
	s.pos = mark
}

// Len is the number of tokens, EOF included.
func (s *Stream) Len() int { return len(s.tokens) }
