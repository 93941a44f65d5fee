package expression

import "fmt"

// AtomKind classifies an atom token so the parser need not re-classify it.
type AtomKind string

const (
	NumberAtom AtomKind = "number"
	BoolAtom   AtomKind = "bool"
	UnitAtom   AtomKind = "unit"
	TextAtom   AtomKind = "text"
	IDAtom     AtomKind = "id"
)

// Token is either an *AtomToken or an *OperatorToken.
type Token interface {
	Text() string
	BeginsPos() int
	EndsPos() int
	token()
}

type rangeToken struct {
	text               string
	beginsPos, endsPos int
}

func (t rangeToken) Text() string {
	return t.text
}

func (t rangeToken) BeginsPos() int {
	return t.beginsPos
}

func (t rangeToken) EndsPos() int {
	return t.endsPos
}

func (rangeToken) token() {}

// AtomToken is a literal or identifier.
type AtomToken struct {
	rangeToken
	Kind AtomKind
}

func (t *AtomToken) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.text)
}

// OperatorToken is a punctuation cluster or a keyword.
type OperatorToken struct {
	rangeToken
}

func (t *OperatorToken) String() string {
	return fmt.Sprintf("operator(%s)", t.text)
}

func newAtomToken(source string, begins, ends int, kind AtomKind) *AtomToken {
	return &AtomToken{
		rangeToken: rangeToken{text: source[begins:ends], beginsPos: begins, endsPos: ends},
		Kind:       kind,
	}
}

func newOperatorToken(source string, begins, ends int) *OperatorToken {
	return &OperatorToken{
		rangeToken: rangeToken{text: source[begins:ends], beginsPos: begins, endsPos: ends},
	}
}

// KindOf returns the atom kind of t, or "operator".
func KindOf(t Token) string {
	if a, ok := t.(*AtomToken); ok {
		return string(a.Kind)
	}
	return "operator"
}

func isOperator(t Token, text string) bool {
	op, ok := t.(*OperatorToken)
	return ok && op.text == text
}
