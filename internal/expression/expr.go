package expression

import (
	"strings"

	"github.com/goccy/go-json"
)

// Expr is a node of the syntax tree: *Atom, *Cons or *Call.
// Nodes are never mutated after the parser has built them.
type Expr interface {
	// String renders the node as a fully parenthesized S-expression.
	String() string
	expr()
}

// Atom is a literal or identifier leaf.
type Atom struct {
	Text string
	Kind AtomKind
}

// Cons is a labeled node whose children order is fixed per construct.
type Cons struct {
	Tag      string
	Children []Expr
}

// Call is a function application. The callee is kept as a subtree.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (*Atom) expr() {}
func (*Cons) expr() {}
func (*Call) expr() {}

// NewAtom is a shorthand mainly for building expected trees.
func NewAtom(text string, kind AtomKind) *Atom {
	return &Atom{Text: text, Kind: kind}
}

// NewCons is a shorthand mainly for building expected trees.
func NewCons(tag string, children ...Expr) *Cons {
	return &Cons{Tag: tag, Children: children}
}

func (a *Atom) String() string {
	return a.Text
}

func (c *Cons) String() string {
	var b strings.Builder
	writeList(&b, c.Tag, c.Children)
	return b.String()
}

// String renders a call as (callee (params args...)).
func (c *Call) String() string {
	var b strings.Builder
	writeList(&b, c.Callee.String(), []Expr{&Cons{Tag: paramsTag, Children: c.Args}})
	return b.String()
}

func writeList(b *strings.Builder, tag string, children []Expr) {
	b.WriteByte('(')
	b.WriteString(tag)
	for _, child := range children {
		b.WriteByte(' ')
		b.WriteString(child.String())
	}
	b.WriteByte(')')
}

// Plain converts a tree into maps and slices for generic encoders.
func Plain(e Expr) any {
	switch v := e.(type) {
	case *Atom:
		return map[string]any{
			"atom": v.Text,
			"kind": string(v.Kind),
		}
	case *Cons:
		return map[string]any{
			"tag":      v.Tag,
			"children": plainList(v.Children),
		}
	case *Call:
		return map[string]any{
			"call": Plain(v.Callee),
			"args": plainList(v.Args),
		}
	default:
		return nil
	}
}

func plainList(list []Expr) []any {
	ret := make([]any, len(list))
	for i, e := range list {
		ret[i] = Plain(e)
	}
	return ret
}

func (a *Atom) MarshalJSON() ([]byte, error) {
	return json.Marshal(Plain(a))
}

func (c *Cons) MarshalJSON() ([]byte, error) {
	return json.Marshal(Plain(c))
}

func (c *Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(Plain(c))
}
