// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/unitkit/unitkit/pkg/ledger"
)

// perKeyword is read as a division sign, so "kilometer per hour" is km/h.
const perKeyword = "per"

const (
	tokEOF tokenKind = iota
	tokNumber
	tokSymbol
	tokOperator
	tokLParen
	tokRParen
)

type (
	tokenKind int

	token struct {
		kind tokenKind
		// text is the token as the parser sees it: "^" for "**", "/" for "per".
		text string
		// offset is the byte offset of the token in the original input.
		offset int
		// implicit marks a '*' inserted between adjacent operands.
		implicit bool
	}
)

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// describe names the token for error messages.
func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return "\"" + t.text + "\""
}

// startsOperand reports whether t can begin a base.
func (t token) startsOperand() bool {
	return t.kind == tokNumber || t.kind == tokSymbol || t.kind == tokLParen
}

// endsOperand reports whether t can end a base.
func (t token) endsOperand() bool {
	return t.kind == tokNumber || t.kind == tokSymbol || t.kind == tokRParen
}

// tokenize splits input into tokens and applies the syntax fixes: "**" and
// "per" are rewritten and an implicit '*' is inserted between adjacent
// operands. The returned slice always ends with a tokEOF token.
func tokenize(input string) ([]token, error) {
	var tokens []token
	emit := func(t token) {
		if n := len(tokens); n > 0 && tokens[n-1].endsOperand() && t.startsOperand() {
			tokens = append(tokens, token{kind: tokOperator, text: "*", offset: t.offset, implicit: true})
		}
		tokens = append(tokens, t)
	}

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r):
			end := scanNumber(input, i)
			emit(token{kind: tokNumber, text: input[i:end], offset: i})
			i = end
		case ledger.IsSymbolRune(r, true):
			end := scanSymbol(input, i+size)
			word := input[i:end]
			if word == perKeyword {
				emit(token{kind: tokOperator, text: "/", offset: i})
			} else {
				emit(token{kind: tokSymbol, text: word, offset: i})
			}
			i = end
		case r == '*' && strings.HasPrefix(input[i:], "**"):
			emit(token{kind: tokOperator, text: "^", offset: i})
			i += 2
		case strings.ContainsRune("+-*/^", r):
			emit(token{kind: tokOperator, text: string(r), offset: i})
			i += size
		case r == '(':
			emit(token{kind: tokLParen, text: "(", offset: i})
			i += size
		case r == ')':
			emit(token{kind: tokRParen, text: ")", offset: i})
			i += size
		default:
			return nil, &ParseError{Input: input, Offset: i, Err: syntaxError("unexpected character %q", r)}
		}
	}

	return append(tokens, token{kind: tokEOF, offset: len(input)}), nil
}

// scanNumber returns the end of the numeric literal starting at i:
// digits, an optional fraction and an optional exponent. The exponent is
// only consumed when a digit follows, so "2e" stays a number and a symbol.
func scanNumber(s string, i int) int {
	i = scanDigits(s, i)
	if i < len(s) && s[i] == '.' {
		i = scanDigits(s, i+1)
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(rune(s[j])) {
			i = scanDigits(s, j)
		}
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return i
}

func scanSymbol(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !ledger.IsSymbolRune(r, false) {
			break
		}
		i += size
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Normalize returns input after the syntax fixes the parser applies:
// whitespace removed, "**" written as "^", "per" written as "/" and implicit
// multiplications made explicit. Symbols are not resolved.
//
//	Normalize("kilometer per hour") // "kilometer/hour"
//	Normalize("9.81 m/s ** 2")      // "9.81*m/s^2"
func Normalize(input string) (string, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.text)
	}
	return sb.String(), nil
}
