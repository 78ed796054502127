package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdentifier
	tokenKeyword
	tokenNumber
	tokenString
	tokenOperator
)

var keywords = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"this":  true,
}

// token is a single lexeme with its position in the source text.
type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

func (t token) isOperator(op string) bool {
	return t.kind == tokenOperator && t.text == op
}

func (t token) isIdentifier() bool {
	return t.kind == tokenIdentifier
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokenKeyword && t.text == kw
}

const operatorChars = ".[](),+"

// lex tokenizes the source text. The language is deliberately tiny:
// identifiers (with an optional leading '$'), number and string literals,
// the keywords true/false/null/this, and the operators ". [ ] ( ) , +".
func lex(src string) ([]token, error) {
	runes := []rune(src)
	tokens := make([]token, 0, 8)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case isIdentifierStart(r):
			start := i
			for i < len(runes) && isIdentifierPart(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			kind := tokenIdentifier
			if keywords[text] {
				kind = tokenKeyword
			}
			tokens = append(tokens, token{kind: kind, pos: start, text: text})

		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				// A dot is only part of the number when followed by a digit,
				// otherwise it is a member-access operator ("1.name" is invalid
				// anyway, but "items[0].name" must not swallow the dot).
				if runes[i] == '.' && (i+1 >= len(runes) || !unicode.IsDigit(runes[i+1])) {
					break
				}
				i++
			}
			text := string(runes[start:i])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid number %q at position %d", ErrParse, text, start)
			}
			tokens = append(tokens, token{kind: tokenNumber, pos: start, text: text, num: num})

		case r == '\'' || r == '"':
			text, next, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, pos: i, text: text})
			i = next

		case strings.ContainsRune(operatorChars, r):
			tokens = append(tokens, token{kind: tokenOperator, pos: i, text: string(r)})
			i++

		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrParse, string(r), i)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}

// lexString consumes a quoted string starting at runes[start] and returns its
// unescaped value and the index just past the closing quote.
func lexString(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var sb strings.Builder
	i := start + 1

	for i < len(runes) {
		r := runes[i]
		if r == quote {
			return sb.String(), i + 1, nil
		}
		if r == '\\' {
			i++
			if i >= len(runes) {
				break
			}
			switch runes[i] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(runes[i])
			}
			i++
			continue
		}
		sb.WriteRune(r)
		i++
	}

	return "", 0, errors.Join(ErrParse, fmt.Errorf("unterminated string literal at position %d", start))
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentifierPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}
