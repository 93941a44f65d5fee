package expression_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/karupanerura/exprlang/internal/expression"
)

type tokenSummary struct {
	Kind string
	Text string
}

func summarize(tokens []expression.Token) []tokenSummary {
	ret := make([]tokenSummary, len(tokens))
	for i, tok := range tokens {
		ret[i] = tokenSummary{Kind: expression.KindOf(tok), Text: tok.Text()}
	}
	return ret
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected []tokenSummary
	}{
		{
			source:   "",
			expected: []tokenSummary{},
		},
		{
			source:   "  \t\n # only a comment",
			expected: []tokenSummary{},
		},
		{
			source: "1 + 2.5",
			expected: []tokenSummary{
				{"number", "1"}, {"operator", "+"}, {"number", "2.5"},
			},
		},
		{
			source: "1.",
			expected: []tokenSummary{
				{"number", "1"}, {"operator", "."},
			},
		},
		{
			source: "1.2.3",
			expected: []tokenSummary{
				{"number", "1.2"}, {"operator", "."}, {"number", "3"},
			},
		},
		{
			source: "true false unit nil",
			expected: []tokenSummary{
				{"bool", "true"}, {"bool", "false"}, {"unit", "unit"}, {"id", "nil"},
			},
		},
		{
			source: "var x_1 = not y",
			expected: []tokenSummary{
				{"operator", "var"}, {"id", "x_1"}, {"operator", "="}, {"operator", "not"}, {"id", "y"},
			},
		},
		{
			source: "_private ünïcödé 変数",
			expected: []tokenSummary{
				{"id", "_private"}, {"id", "ünïcödé"}, {"id", "変数"},
			},
		},
		{
			source: "a==b>=c<=d<e>f=g",
			expected: []tokenSummary{
				{"id", "a"}, {"operator", "=="}, {"id", "b"}, {"operator", ">="}, {"id", "c"},
				{"operator", "<="}, {"id", "d"}, {"operator", "<"}, {"id", "e"}, {"operator", ">"},
				{"id", "f"}, {"operator", "="}, {"id", "g"},
			},
		},
		{
			source: "===",
			expected: []tokenSummary{
				{"operator", "=="}, {"operator", "="},
			},
		},
		{
			source: "+-*/%^,.:!?()[]{}",
			expected: []tokenSummary{
				{"operator", "+"}, {"operator", "-"}, {"operator", "*"}, {"operator", "/"},
				{"operator", "%"}, {"operator", "^"}, {"operator", ","}, {"operator", "."},
				{"operator", ":"}, {"operator", "!"}, {"operator", "?"}, {"operator", "("},
				{"operator", ")"}, {"operator", "["}, {"operator", "]"}, {"operator", "{"},
				{"operator", "}"},
			},
		},
		{
			source: `"hello" "say \"hi\"" "a\
b"`,
			expected: []tokenSummary{
				{"text", `"hello"`}, {"text", `"say \"hi\""`}, {"text", "\"a\\\nb\""},
			},
		},
		{
			source: `"# not a comment" # a comment`,
			expected: []tokenSummary{
				{"text", `"# not a comment"`},
			},
		},
		{
			source: "1 # one\n# two\n  + 2",
			expected: []tokenSummary{
				{"number", "1"}, {"operator", "+"}, {"number", "2"},
			},
		},
		{
			source: "if then else end do match with loop break function type record trait and or xor to",
			expected: []tokenSummary{
				{"operator", "if"}, {"operator", "then"}, {"operator", "else"}, {"operator", "end"},
				{"operator", "do"}, {"operator", "match"}, {"operator", "with"}, {"operator", "loop"},
				{"operator", "break"}, {"operator", "function"}, {"operator", "type"},
				{"operator", "record"}, {"operator", "trait"}, {"operator", "and"}, {"operator", "or"},
				{"operator", "xor"}, {"operator", "to"},
			},
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			tokens, err := expression.Tokenize(tt.source)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.expected, summarize(tokens)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeLexicalError(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source   string
		expected []tokenSummary
	}{
		{
			source:   "@",
			expected: []tokenSummary{},
		},
		{
			source:   "a + @b",
			expected: []tokenSummary{{"id", "a"}, {"operator", "+"}},
		},
		{
			source:   "1 & 2",
			expected: []tokenSummary{{"number", "1"}},
		},
		{
			source:   "x١ = ١٢",
			expected: []tokenSummary{{"id", "x١"}, {"operator", "="}},
		},
		{
			source:   `x "unterminated`,
			expected: []tokenSummary{{"id", "x"}},
		},
		{
			source:   `"ends with a backslash\`,
			expected: []tokenSummary{},
		},
		{
			source:   "a \xff",
			expected: []tokenSummary{{"id", "a"}},
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			tokens, err := expression.Tokenize(tt.source)
			if !errors.Is(err, expression.ErrLexical) {
				t.Fatalf("expected a lexical error but got %v", err)
			}
			if errors.Is(err, expression.ErrSyntax) {
				t.Errorf("lexical error should not be a syntax error: %v", err)
			}
			t.Logf("expected lexical error: %v", err)
			if diff := cmp.Diff(tt.expected, summarize(tokens)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerPeek(t *testing.T) {
	t.Parallel()

	lex := expression.NewLexer("a + b")

	first, err := lex.Peek()
	if err != nil {
		t.Fatal(err)
	}
	second, err := lex.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Peek twice should return the same token: %v != %v", first, second)
	}

	next, err := lex.Next()
	if err != nil {
		t.Fatal(err)
	}
	if next != first {
		t.Errorf("Next should return the peeked token: %v != %v", next, first)
	}

	for _, expected := range []string{"+", "b"} {
		peeked, err := lex.Peek()
		if err != nil {
			t.Fatal(err)
		}
		tok, err := lex.Next()
		if err != nil {
			t.Fatal(err)
		}
		if peeked != tok || tok.Text() != expected {
			t.Errorf("expected %s but peeked %v and got %v", expected, peeked, tok)
		}
	}

	if _, err := lex.Peek(); err != io.EOF {
		t.Errorf("expected io.EOF but got %v", err)
	}
	if _, err := lex.Next(); err != io.EOF {
		t.Errorf("expected io.EOF but got %v", err)
	}
}

func TestLexerStopsAtLexicalError(t *testing.T) {
	t.Parallel()

	lex := expression.NewLexer("a @ b")
	if _, err := lex.Next(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := lex.Next(); !errors.Is(err, expression.ErrLexical) {
			t.Fatalf("expected a lexical error but got %v", err)
		}
	}
}

func TestTokenRanges(t *testing.T) {
	t.Parallel()

	source := "x = \"é\" # c\n  1.5"
	tokens, err := expression.Tokenize(source)
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range tokens {
		if got := source[tok.BeginsPos():tok.EndsPos()]; got != tok.Text() {
			t.Errorf("token text %q does not match its range %q", tok.Text(), got)
		}
	}

	last := tokens[len(tokens)-1]
	if line, column := expression.Position(source, last.BeginsPos()); line != 2 || column != 3 {
		t.Errorf("expected 2:3 but got %d:%d", line, column)
	}
}
