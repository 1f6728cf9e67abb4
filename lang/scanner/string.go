package scanner

import "github.com/mna/ember/lang/token"

// string scans a STRING token. The source implementation performs no escape
// processing: everything between the quotes is taken verbatim, a newline
// simply advances the line counter, and reaching end-of-input first is an
// "Unterminated string." error.
func (s *Scanner) string() Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}

	s.advance() // the closing quote
	return s.makeToken(token.STRING)
}
