package expr

import (
	"fmt"
	"strings"
)

// ParseAccess compiles a property-access path such as "firstName",
// "address.city" or "items[0].name" into an Expression.
func ParseAccess(path string) (Expression, error) {
	return parse(path)
}

// ParseInterpolation compiles a message template. Text containing one or
// more ${...} parts compiles to an *Interpolation; plain text compiles to a
// *Literal holding the text verbatim. "\${" escapes a literal "${".
func ParseInterpolation(text string) (Expression, error) {
	strs, parts, err := splitInterpolation(text)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return &Literal{Value: strs[0]}, nil
	}

	exprs := make([]Expression, len(parts))
	for i, part := range parts {
		e, err := parse(part)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return &Interpolation{Strings: strs, Parts: exprs}, nil
}

// splitInterpolation separates literal text from embedded ${...} sources.
// The returned strings slice has exactly one more element than parts.
func splitInterpolation(text string) ([]string, []string, error) {
	var (
		strs    []string
		parts   []string
		literal strings.Builder
	)
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+2 < len(runes) && runes[i+1] == '$' && runes[i+2] == '{' {
			literal.WriteString("${")
			i += 2
			continue
		}
		if runes[i] == '$' && i+1 < len(runes) && runes[i+1] == '{' {
			end, err := matchBrace(runes, i+1)
			if err != nil {
				return nil, nil, err
			}
			strs = append(strs, literal.String())
			literal.Reset()
			parts = append(parts, string(runes[i+2:end]))
			i = end
			continue
		}
		literal.WriteRune(runes[i])
	}

	strs = append(strs, literal.String())
	return strs, parts, nil
}

// matchBrace returns the index of the '}' matching the '{' at open,
// honoring nested braces and quoted strings.
func matchBrace(runes []rune, open int) (int, error) {
	depth := 0
	for i := open; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		case '\'', '"':
			quote := runes[i]
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' {
					i++
					continue
				}
				if runes[i] == quote {
					break
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: unbalanced interpolation braces in %q", ErrParse, string(runes))
}

type parser struct {
	src    string
	tokens []token
	index  int
}

func parse(src string) (Expression, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return e, nil
}

func (p *parser) peek() token {
	return p.tokens[p.index]
}

func (p *parser) next() token {
	t := p.tokens[p.index]
	if p.tokens[p.index].kind != tokenEOF {
		p.index++
	}
	return t
}

func (p *parser) expectOperator(op string) error {
	if !p.peek().isOperator(op) {
		return p.errorf("expected %q, found %q", op, p.peek().text)
	}
	p.next()
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d in %q", ErrParse, fmt.Sprintf(format, args...), p.peek().pos, p.src)
}

func (p *parser) parseExpression() (Expression, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.peek().isOperator("+") {
		p.next()
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "+", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePostfix() (Expression, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.peek().isOperator("."):
			p.next()
			name := p.next()
			if !name.isIdentifier() && name.kind != tokenKeyword {
				return nil, p.errorf("expected member name, found %q", name.text)
			}
			e = &Member{Object: e, Name: name.text}

		case p.peek().isOperator("["):
			p.next()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectOperator("]"); err != nil {
				return nil, err
			}
			e = &Index{Object: e, Key: key}

		case p.peek().isOperator("("):
			p.next()
			var args []Expression
			for !p.peek().isOperator(")") {
				if len(args) > 0 {
					if err := p.expectOperator(","); err != nil {
						return nil, err
					}
				}
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			p.next()
			e = &Call{Callee: e, Args: args}

		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (Expression, error) {
	t := p.peek()

	switch {
	case t.kind == tokenNumber:
		p.next()
		return &Literal{Value: t.num}, nil

	case t.kind == tokenString:
		p.next()
		return &Literal{Value: t.text}, nil

	case t.isKeyword("true"):
		p.next()
		return &Literal{Value: true}, nil

	case t.isKeyword("false"):
		p.next()
		return &Literal{Value: false}, nil

	case t.isKeyword("null"):
		p.next()
		return &Literal{Value: nil}, nil

	case t.isKeyword("this"):
		p.next()
		return &Access{Name: "$this"}, nil

	case t.isIdentifier():
		return p.parseAccess()

	case t.isOperator("("):
		p.next()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectOperator(")"); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return nil, p.errorf("unexpected %q", t.text)
	}
}

// parseAccess handles leading "$parent" hops before the referenced name.
// A trailing bare "$parent" resolves to the parent's binding context.
func (p *parser) parseAccess() (Expression, error) {
	ancestor := 0
	for p.peek().isIdentifier() && p.peek().text == "$parent" {
		p.next()
		ancestor++
		if !p.peek().isOperator(".") {
			return &Access{Name: "$this", Ancestor: ancestor}, nil
		}
		p.next()
	}

	t := p.next()
	if !t.isIdentifier() && !t.isKeyword("this") {
		return nil, p.errorf("expected identifier, found %q", t.text)
	}
	name := t.text
	if name == "this" {
		name = "$this"
	}
	return &Access{Name: name, Ancestor: ancestor}, nil
}
