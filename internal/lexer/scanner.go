package lexer

import (
	"strconv"
	"unicode/utf8"

	"mlox/internal/errors"
	"mlox/internal/value"
)

type Scanner struct {
	source  string
	file    string
	tokens  []Token
	start   int
	current int
	line    int
	Errors  errors.List
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

func NewScannerWithFile(source string, file string) *Scanner {
	s := NewScanner(source)
	s.file = file
	return s
}

// Scan tokenizes source in one pass. The token slice always ends with EOF,
// even when errors were found; err is an errors.List holding all of them.
func Scan(source string) ([]Token, error) {
	s := NewScanner(source)
	tokens := s.ScanTokens()
	return tokens, s.Errors.Err()
}

func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: TokenEOF, Lexeme: "", Line: s.line})
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(TokenLParen)
	case ')':
		s.addToken(TokenRParen)
	case '{':
		s.addToken(TokenLBrace)
	case '}':
		s.addToken(TokenRBrace)
	case ',':
		s.addToken(TokenComma)
	case '.':
		s.addToken(TokenDot)
	case '-':
		s.addToken(TokenMinus)
	case '+':
		s.addToken(TokenPlus)
	case ';':
		s.addToken(TokenSemicolon)
	case '*':
		s.addToken(TokenStar)
	case '/':
		if s.match('/') {
			// comment runs to end of line
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(TokenSlash)
		}
	case '!':
		if s.match('=') {
			s.addToken(TokenNotEqual)
		} else {
			s.addToken(TokenNot)
		}
	case '=':
		if s.match('=') {
			s.addToken(TokenDoubleEqual)
		} else {
			s.addToken(TokenEqual)
		}
	case '<':
		if s.match('=') {
			s.addToken(TokenLE)
		} else {
			s.addToken(TokenLT)
		}
	case '>':
		if s.match('=') {
			s.addToken(TokenGE)
		} else {
			s.addToken(TokenGT)
		}
	case '"', '\'':
		s.string(c)
	case '\n':
		s.line++
	case ' ', '\r', '\t':
		// Ignore whitespace
	default:
		if isDigit(c) {
			s.number()
		} else if isAlpha(c) {
			s.identifier()
		} else {
			s.unexpected()
		}
	}
}

func (s *Scanner) unexpected() {
	// Consume the rest of a multi-byte rune so it is reported once.
	if _, size := utf8.DecodeRuneInString(s.source[s.start:]); size > 1 {
		s.current = s.start + size
	}
	s.error(errors.UnexpectedCharacter, "Unexpected character.")
}

func (s *Scanner) error(kind errors.Kind, msg string) {
	err := errors.NewScanError(kind, msg, s.line)
	if s.file != "" {
		err = err.WithFile(s.file)
	}
	s.Errors = append(s.Errors, err)
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(LookupKeyword(s.source[s.start:s.current]))
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := s.source[s.start:s.current]
	// text is all digits, so the only possible error is ErrRange, for which
	// ParseFloat already returns +Inf.
	n, _ := strconv.ParseFloat(text, 64)
	s.addLiteral(TokenNumber, value.Number(n))
}

func (s *Scanner) string(quote byte) {
	for s.peek() != quote && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.error(errors.UnterminatedString, "Unterminated string.")
		return
	}
	s.advance() // closing quote
	s.addLiteral(TokenString, value.String(s.source[s.start+1:s.current-1]))
}

func (s *Scanner) addToken(t TokenType) {
	s.addLiteral(t, nil)
}

func (s *Scanner) addLiteral(t TokenType, literal value.Value) {
	text := s.source[s.start:s.current]
	s.tokens = append(s.tokens, Token{Type: t, Lexeme: text, Literal: literal, Line: s.line})
}

func (s *Scanner) advance() byte {
	s.current++
	return s.source[s.current-1]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
