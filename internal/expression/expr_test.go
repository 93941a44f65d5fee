package expression_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/karupanerura/exprlang/internal/expression"
)

func TestAtomValue(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected any
	}{
		{source: "42", expected: int64(42)},
		{source: "4.25", expected: 4.25},
		{source: "true", expected: true},
		{source: "false", expected: false},
		{source: "unit", expected: nil},
		{source: "name", expected: "name"},
		{source: `"plain"`, expected: "plain"},
		{source: `"a\nb"`, expected: "a\nb"},
		{source: `"say \"hi\""`, expected: `say "hi"`},
		{source: `"back\\slash"`, expected: `back\slash`},
		{source: `"\q\é"`, expected: "qé"},
		{source: "\"line\\\ncontinued\"", expected: "line\ncontinued"},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			e, err := expression.ParseExpr(tt.source)
			if err != nil {
				t.Fatal(err)
			}
			atom, ok := e.(*expression.Atom)
			if !ok {
				t.Fatalf("expected an atom but got %s", e)
			}
			v, err := atom.Value()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.expected, v); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAtomValueOverflow(t *testing.T) {
	t.Parallel()

	atom := expression.NewAtom("99999999999999999999", expression.NumberAtom)
	if _, err := atom.Value(); err == nil {
		t.Error("should be an error")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tree := expression.NewCons("if",
		expression.NewAtom("c", expression.IDAtom),
		expression.NewCons("do"),
		expression.NewCons("do", expression.NewAtom(`"e"`, expression.TextAtom)),
	)
	if got, expected := tree.String(), `(if c (do) (do "e"))`; got != expected {
		t.Errorf("expect to %s but got %s", expected, got)
	}

	call := &expression.Call{Callee: expression.NewAtom("f", expression.IDAtom)}
	if got, expected := call.String(), "(f (params))"; got != expected {
		t.Errorf("expect to %s but got %s", expected, got)
	}
}

func TestExprJSON(t *testing.T) {
	t.Parallel()

	e, err := expression.ParseExpr("f(-1)")
	if err != nil {
		t.Fatal(err)
	}

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}

	var got any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	expected := map[string]any{
		"call": map[string]any{"atom": "f", "kind": "id"},
		"args": []any{
			map[string]any{
				"tag": "-",
				"children": []any{
					map[string]any{"atom": "1", "kind": "number"},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}
