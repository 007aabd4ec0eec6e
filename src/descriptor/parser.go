package descriptor

import (
	"fmt"

	"github.com/thought-machine/hackbuild/src/core"
)

// A ParseError reports a malformed descriptor at a specific position.
type ParseError struct {
	Pos      Position
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// A Call is one parsed rule invocation: an identifier (the rule name)
// applied to a set of keyword arguments.
type Call struct {
	Name string
	Args core.Kwargs
	Pos  Position
}

// Parse parses a complete descriptor file's source into its sequence of
// rule-function calls, in the order they appear.
func Parse(src string) ([]Call, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	var calls []Call
	for p.peek().Kind != TokenEOF {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return Token{}, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, got %s", kind, t.Kind)}
	}
	return p.advance(), nil
}

func (p *parser) parseCall() (Call, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return Call{}, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return Call{}, err
	}
	args := core.Kwargs{}
	for p.peek().Kind != TokenRParen {
		key, err := p.expect(TokenIdent)
		if err != nil {
			return Call{}, err
		}
		if _, err := p.expect(TokenEquals); err != nil {
			return Call{}, err
		}
		value, err := p.parseValue()
		if err != nil {
			return Call{}, err
		}
		args[key.Str] = value
		if p.peek().Kind == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return Call{}, err
	}
	return Call{Name: name.Str, Args: args, Pos: name.Pos}, nil
}

func (p *parser) parseValue() (core.Value, error) {
	t := p.peek()
	switch t.Kind {
	case TokenString:
		p.advance()
		return core.StringValue(t.Str), nil
	case TokenInt:
		p.advance()
		return core.IntValue(t.Int), nil
	case TokenTrue:
		p.advance()
		return core.BoolValue(true), nil
	case TokenFalse:
		p.advance()
		return core.BoolValue(false), nil
	case TokenNone:
		p.advance()
		return core.None, nil
	case TokenLBracket:
		return p.parseList()
	default:
		return core.Value{}, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected token %s in value position", t.Kind)}
	}
}

func (p *parser) parseList() (core.Value, error) {
	if _, err := p.expect(TokenLBracket); err != nil {
		return core.Value{}, err
	}
	var items []core.Value
	for p.peek().Kind != TokenRBracket {
		item, err := p.parseValue()
		if err != nil {
			return core.Value{}, err
		}
		items = append(items, item)
		if p.peek().Kind == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return core.Value{}, err
	}
	return core.ListValue(items...), nil
}
