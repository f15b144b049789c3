package expr

import (
	"fmt"
)

// Binding powers. Unary minus binds looser than "^", so -2^2 is -(2^2).
const (
	precLowest = iota * 10
	precSum
	precProduct
	precUnary
	precPower
)

var operatorPrecedence = map[string]int{
	"+": precSum,
	"-": precSum,
	"*": precProduct,
	"/": precProduct,
	"^": precPower,
}

// MaxDepth bounds how deeply parentheses, unary operators and "^" chains may nest.
const MaxDepth = 256

// Parser builds a syntax tree from tokens.
type Parser struct {
	tokens []Token
	pos    int
	depth  int
}

// NewParser creates a parser over tokens produced by Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a complete expression and rejects trailing tokens.
func (p *Parser) Parse() (*Node, error) {
	node, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, unexpected(tok)
	}

	return node, nil
}

func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	return Token{Type: TokenEOF}
}

func (p *Parser) next() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

func (p *Parser) expect(t TokenType, what string) error {
	tok := p.next()
	if tok.Type != t {
		return fmt.Errorf("%w: expected %s at offset %d", ErrExpression, what, tok.Offset)
	}

	return nil
}

func (p *Parser) parseExpression(precedence int) (*Node, error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxDepth {
		return nil, fmt.Errorf("%w: expression nested deeper than %d levels", ErrExpression, MaxDepth)
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOperator {
			return left, nil
		}

		opPrecedence := operatorPrecedence[tok.Value]
		if opPrecedence < precedence {
			return left, nil
		}

		p.next()

		// "^" is right-associative and its exponent may carry a sign.
		rightPrecedence := opPrecedence + 1
		if tok.Value == "^" {
			rightPrecedence = precUnary
		}

		right, err := p.parseExpression(rightPrecedence)
		if err != nil {
			return nil, err
		}

		left = &Node{Type: NodeBinary, Operator: tok.Value, Children: []*Node{left, right}}
	}
}

func (p *Parser) parsePrefix() (*Node, error) {
	tok := p.next()

	switch tok.Type {
	case TokenNumber:
		return &Node{Type: NodeNumber, Num: tok.Num}, nil
	case TokenIdent:
		if p.current().Type == TokenLeftParen {
			p.next()

			return p.parseCall(tok)
		}

		return &Node{Type: NodeIdent, Name: tok.Value}, nil
	case TokenLeftParen:
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		if err := p.expect(TokenRightParen, `")"`); err != nil {
			return nil, err
		}

		return inner, nil
	case TokenOperator:
		if tok.Value != "+" && tok.Value != "-" {
			return nil, unexpected(tok)
		}

		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}

		return &Node{Type: NodeUnary, Operator: tok.Value, Children: []*Node{operand}}, nil
	default:
		return nil, unexpected(tok)
	}
}

func (p *Parser) parseCall(name Token) (*Node, error) {
	fn, ok := functions[name.Value]
	if !ok {
		return nil, &UnknownFunctionError{Name: name.Value, Offset: name.Offset}
	}

	node := &Node{Type: NodeCall, Name: name.Value}

	if p.current().Type == TokenRightParen {
		p.next()
	} else {
		for {
			arg, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}

			node.Children = append(node.Children, arg)

			if p.current().Type == TokenComma {
				p.next()

				continue
			}

			if err := p.expect(TokenRightParen, `")" or ","`); err != nil {
				return nil, err
			}

			break
		}
	}

	if n := len(node.Children); n < fn.minArgs || (fn.maxArgs >= 0 && n > fn.maxArgs) {
		return nil, fmt.Errorf("%w: %s() takes %s, got %d", ErrExpression, name.Value, fn.arity(), n)
	}

	return node, nil
}

// UnknownFunctionError reports a call to a function outside the allowed set.
type UnknownFunctionError struct {
	Name   string
	Offset int
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("%s: unknown function %q at offset %d", ErrExpression, e.Name, e.Offset)
}

func (e *UnknownFunctionError) Unwrap() error {
	return ErrExpression
}

func unexpected(tok Token) error {
	if tok.Type == TokenEOF {
		return fmt.Errorf("%w: unexpected end of expression", ErrExpression)
	}

	return fmt.Errorf("%w: unexpected %q at offset %d", ErrExpression, tok.Value, tok.Offset)
}
