package scanner

import "github.com/mna/ember/lang/token"

// number scans a NUMBER token matching \d+(\.\d+)?. The decimal point is only
// consumed as part of the number if it is followed by a digit, so that a
// property access on a number literal (e.g. "1.toString", not legal in this
// language but mirroring the source scanner's lookahead discipline) never
// swallows a trailing dot that isn't part of the literal.
func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.makeToken(token.NUMBER)
}
