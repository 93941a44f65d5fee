package types

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	ConfigErrorTag  ErrorTag = "ConfigError"
	LexicalErrorTag ErrorTag = "LexicalError"
	SyntaxErrorTag  ErrorTag = "SyntaxError"
)

// Exception is an error which can be dumped as a structured value.
type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error carrying the same tag,
// so a bare &Error{Tag: t} can be used as a sentinel with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Tag == e.Tag
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(error(e)); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags": tags,
	}
	if e.Err != nil {
		o["message"] = e.Err.Error()
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// HasTag reports whether any *Error in err's chain carries tag.
func HasTag(err error, tag ErrorTag) bool {
	return errors.Is(err, &Error{Tag: tag})
}
