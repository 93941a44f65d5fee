package expression

import (
	"fmt"
	"unicode/utf8"

	"github.com/karupanerura/exprlang/internal/types"
)

// Sentinels for errors.Is. A lexical error is fatal for the whole run,
// a syntax error only invalidates the current parse.
var (
	ErrLexical = &types.Error{Tag: types.LexicalErrorTag}
	ErrSyntax  = &types.Error{Tag: types.SyntaxErrorTag}
)

// Position converts a byte offset in source into a 1-based line and column.
// Columns count runes, not bytes.
func Position(source string, offset int) (line, column int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, column = 1, 1
	for _, r := range source[:offset] {
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

func positionExtra(source string, offset int) map[string]any {
	line, column := Position(source, offset)
	return map[string]any{
		"offset": offset,
		"line":   line,
		"column": column,
	}
}

func newLexicalError(source string, offset int, format string, args ...any) error {
	line, column := Position(source, offset)
	return &types.Error{
		Tag:   types.LexicalErrorTag,
		Err:   fmt.Errorf("%s at %d:%d", fmt.Sprintf(format, args...), line, column),
		Extra: positionExtra(source, offset),
	}
}

func invalidCharacterError(source string, offset int) error {
	r, _ := utf8.DecodeRuneInString(source[offset:])
	return newLexicalError(source, offset, "invalid character %q", r)
}

func invalidTokenError(source string, t Token) error {
	line, column := Position(source, t.BeginsPos())
	extra := positionExtra(source, t.BeginsPos())
	extra["token"] = t.Text()
	return &types.Error{
		Tag:   types.SyntaxErrorTag,
		Err:   fmt.Errorf("unexpected token %s at %d:%d", t.Text(), line, column),
		Extra: extra,
	}
}

func expectedTokenError(source string, t Token, expected string) error {
	line, column := Position(source, t.BeginsPos())
	extra := positionExtra(source, t.BeginsPos())
	extra["token"] = t.Text()
	extra["expected"] = expected
	return &types.Error{
		Tag:   types.SyntaxErrorTag,
		Err:   fmt.Errorf("expected %s but got %s at %d:%d", expected, t.Text(), line, column),
		Extra: extra,
	}
}

func unexpectedEOFError(source string, expected string) error {
	extra := positionExtra(source, len(source))
	msg := "unexpected end of input"
	if expected != "" {
		extra["expected"] = expected
		msg = fmt.Sprintf("unexpected end of input, expected %s", expected)
	}
	return &types.Error{
		Tag:   types.SyntaxErrorTag,
		Err:   fmt.Errorf("%s", msg),
		Extra: extra,
	}
}

func nestingTooDeepError(source string, t Token) error {
	line, column := Position(source, t.BeginsPos())
	extra := positionExtra(source, t.BeginsPos())
	extra["token"] = t.Text()
	return &types.Error{
		Tag:   types.SyntaxErrorTag,
		Err:   fmt.Errorf("expression nested too deeply at %d:%d", line, column),
		Extra: extra,
	}
}
