package expression

import (
	"io"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

var keywords = []string{
	"var", "and", "or", "not", "xor", "to", "do", "end", "if", "then", "else",
	"match", "with", "loop", "break", "function", "type", "record", "trait",
}

const punctuation = "+-*/%^<>=,.:!?()[]{}"

// longest first
var multiCharOperators = []string{"==", ">=", "<="}

// IsKeyword reports whether word is reserved and so can never be an identifier.
func IsKeyword(word string) bool {
	return lo.Contains(keywords, word)
}

// Lexer produces tokens from source on demand with one token of lookahead.
// Token texts are substrings of source.
type Lexer struct {
	source string
	index  int
	buf    Token
	err    error
	debug  bool
}

func NewLexer(source string) *Lexer {
	return &Lexer{source: source, debug: parserDebugLog}
}

// Peek returns the next token without consuming it.
// It returns io.EOF at the end of input.
func (l *Lexer) Peek() (Token, error) {
	if l.buf == nil {
		tok, err := l.scan()
		if err != nil {
			return nil, err
		}
		l.buf = tok
	}
	return l.buf, nil
}

// Next consumes and returns the next token.
// It returns io.EOF at the end of input.
func (l *Lexer) Next() (Token, error) {
	tok, err := l.Peek()
	if err != nil {
		return nil, err
	}
	l.buf = nil
	if l.debug {
		log.Println("token: ", tok)
	}
	return tok, nil
}

// Tokenize returns every token in source. On a lexical error the tokens
// scanned so far are returned with the error.
func Tokenize(source string) ([]Token, error) {
	lex := NewLexer(source)
	var tokens []Token
	for {
		tok, err := lex.Next()
		if err == io.EOF {
			return tokens, nil
		} else if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) scan() (Token, error) {
	if l.err != nil {
		return nil, l.err
	}

	l.skipSpacesAndComments()
	if l.index == len(l.source) {
		return nil, io.EOF
	}

	begins := l.index
	rest := l.source[begins:]
	r, size := utf8.DecodeRuneInString(rest)
	switch {
	case isDigit(r):
		l.index += scanNumber(rest)
		return newAtomToken(l.source, begins, l.index, NumberAtom), nil

	case isIdentStart(r):
		l.index += scanWhile(rest, isIdentContinue)
		switch word := l.source[begins:l.index]; {
		case word == "true" || word == "false":
			return newAtomToken(l.source, begins, l.index, BoolAtom), nil
		case word == "unit":
			return newAtomToken(l.source, begins, l.index, UnitAtom), nil
		case IsKeyword(word):
			return newOperatorToken(l.source, begins, l.index), nil
		default:
			return newAtomToken(l.source, begins, l.index, IDAtom), nil
		}

	case r == '"':
		n, ok := scanText(rest)
		if !ok {
			l.err = newLexicalError(l.source, begins, "unterminated text literal")
			return nil, l.err
		}
		l.index += n
		return newAtomToken(l.source, begins, l.index, TextAtom), nil

	case strings.ContainsRune(punctuation, r):
		n := size
		for _, op := range multiCharOperators {
			if strings.HasPrefix(rest, op) {
				n = len(op)
				break
			}
		}
		l.index += n
		return newOperatorToken(l.source, begins, l.index), nil

	default:
		l.err = invalidCharacterError(l.source, begins)
		return nil, l.err
	}
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		l.index += scanWhile(l.source[l.index:], unicode.IsSpace)
		if !strings.HasPrefix(l.source[l.index:], "#") {
			return
		}
		if i := strings.IndexByte(l.source[l.index:], '\n'); i == -1 {
			l.index = len(l.source)
		} else {
			l.index += i
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) ||
		unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Other_ID_Continue)
}

func scanWhile(s string, pred func(rune) bool) int {
	for i, r := range s {
		if !pred(r) {
			return i
		}
	}
	return len(s)
}

// Numbers use ASCII digits only; other decimal digits may still continue
// an identifier.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// scanNumber matches [0-9]+(\.[0-9]+)? at the start of s.
func scanNumber(s string) int {
	n := scanWhile(s, isDigit)
	if strings.HasPrefix(s[n:], ".") {
		if frac := scanWhile(s[n+1:], isDigit); frac != 0 {
			n += 1 + frac
		}
	}
	return n
}

// scanText matches "([^"\\]|\\.)*" at the start of s. An escape may
// cover any rune including a newline.
func scanText(s string) (int, bool) {
	for i := 1; i < len(s); {
		switch s[i] {
		case '"':
			return i + 1, true
		case '\\':
			if i+1 == len(s) {
				return 0, false
			}
			_, size := utf8.DecodeRuneInString(s[i+1:])
			i += 1 + size
		default:
			i++
		}
	}
	return 0, false
}
