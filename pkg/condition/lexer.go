package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type operator struct {
	text string
	kind tokenKind
}

// operators is ordered so two-character operators win over their prefixes.
var operators = []operator{
	{"==", tokenEq}, {"!=", tokenNeq}, {"<=", tokenLte}, {">=", tokenGte},
	{"&&", tokenAnd}, {"||", tokenOr},
	{"<", tokenLt}, {">", tokenGt}, {"!", tokenNot},
	{"(", tokenLParen}, {")", tokenRParen},
}

func lex(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		if op, ok := operatorAt(input, i); ok {
			tokens = append(tokens, token{kind: op.kind, text: op.text, pos: i})
			i += len(op.text)
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			text, n, err := quoted(input[i:])
			if err != nil {
				return nil, fmt.Errorf("condition: offset %d: %w", i, err)
			}
			tokens = append(tokens, token{kind: tokenString, text: text, pos: i})
			i += n
		case ch == '=' || ch == '&' || ch == '|':
			return nil, fmt.Errorf("condition: offset %d: unexpected %q", i, ch)
		default:
			start := i
			for i < len(input) && !isSpace(input[i]) && !strings.ContainsRune(`()!=<>&|"'`, rune(input[i])) {
				i++
			}
			tokens = append(tokens, word(input[start:i], start))
		}
	}
	return tokens, nil
}

func operatorAt(input string, i int) (operator, bool) {
	for _, op := range operators {
		if strings.HasPrefix(input[i:], op.text) {
			return op, true
		}
	}
	return operator{}, false
}

func word(raw string, pos int) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, text: strings.ToLower(raw), pos: pos}
	case "null", "nil", "undefined":
		return token{kind: tokenNull, text: "null", pos: pos}
	}
	if strings.ContainsRune("0123456789+-.", rune(raw[0])) {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return token{kind: tokenNumber, text: raw, pos: pos}
		}
	}
	return token{kind: tokenIdent, text: raw, pos: pos}
}

// quoted reads a single or double quoted literal at the start of s and
// reports the unescaped value and the number of bytes consumed.
func quoted(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
