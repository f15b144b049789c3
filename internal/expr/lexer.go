package expr

import (
	"fmt"
	"strconv"
)

// TokenType represents the lexical class of a token.
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenIdent
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenEOF
)

// Token is one lexical token with its byte offset in the source.
type Token struct {
	Type   TokenType
	Value  string
	Num    float64
	Offset int
}

// Lexer breaks an expression into tokens.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a lexer for input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns all tokens of the input, terminated by TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch {
		case isWhitespace(c):
			l.pos++
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
			if err := l.tokenizeNumber(); err != nil {
				return nil, err
			}
		case isAlpha(c):
			l.tokenizeIdent()
		case c == '(':
			l.emit(TokenLeftParen, "(", l.pos+1)
		case c == ')':
			l.emit(TokenRightParen, ")", l.pos+1)
		case c == ',':
			l.emit(TokenComma, ",", l.pos+1)
		case c == '*' && l.peek(1) == '*':
			// "**" is read as the power operator.
			l.emit(TokenOperator, "^", l.pos+2)
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			l.emit(TokenOperator, string(c), l.pos+1)
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrExpression, c, l.pos)
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Offset: l.pos})

	return l.tokens, nil
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}

	return 0
}

// emit appends a token starting at the current position and advances to end.
func (l *Lexer) emit(t TokenType, value string, end int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Offset: l.pos})
	l.pos = end
}

func (l *Lexer) tokenizeNumber() error {
	start := l.pos

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++

		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		exp := l.pos + 1
		if exp < len(l.input) && (l.input[exp] == '+' || l.input[exp] == '-') {
			exp++
		}

		if exp < len(l.input) && isDigit(l.input[exp]) {
			l.pos = exp
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
		}
	}

	text := l.input[start:l.pos]

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: bad number %q at offset %d", ErrExpression, text, start)
	}

	l.tokens = append(l.tokens, Token{Type: TokenNumber, Value: text, Num: n, Offset: start})

	return nil
}

func (l *Lexer) tokenizeIdent() {
	start := l.pos
	for l.pos < len(l.input) && isAlphaNumeric(l.input[l.pos]) {
		l.pos++
	}

	l.tokens = append(l.tokens, Token{Type: TokenIdent, Value: l.input[start:l.pos], Offset: start})
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
