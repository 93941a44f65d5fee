package render

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	"github.com/karupanerura/exprlang/internal/config"
	"github.com/karupanerura/exprlang/internal/expression"
)

// Options controls how trees and tokens are written.
type Options struct {
	Format config.Format
	Indent string
	Color  config.ColorMode
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{Format: cfg.Format, Indent: cfg.Indent, Color: cfg.Color}
}

// UseColor resolves the color mode against w.
func (o Options) UseColor(w io.Writer) bool {
	switch o.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Tree writes tree to w in the configured format, followed by a newline.
func Tree(w io.Writer, tree expression.Expr, opts Options) error {
	switch opts.Format {
	case config.SExprFormat, "":
		if _, err := io.WriteString(w, tree.String()+"\n"); err != nil {
			return fmt.Errorf("io.WriteString: %w", err)
		}
		return nil

	case config.JSONFormat:
		return DumpJSON(w, expression.Plain(tree), opts)

	case config.YAMLFormat:
		b, err := yaml.Marshal(expression.Plain(tree))
		if err != nil {
			return fmt.Errorf("yaml.Marshal: %w", err)
		}
		if _, err = w.Write(b); err != nil {
			return fmt.Errorf("w.Write: %w", err)
		}
		return nil

	case config.PPFormat:
		if _, err := pp.Fprintln(w, expression.Plain(tree)); err != nil {
			return fmt.Errorf("pp.Fprintln: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// TokenRecord is the encoded form of a token.
type TokenRecord struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Offset int    `json:"offset" yaml:"offset"`
}

func TokenRecords(tokens []expression.Token) []TokenRecord {
	records := make([]TokenRecord, len(tokens))
	for i, tok := range tokens {
		records[i] = TokenRecord{Kind: expression.KindOf(tok), Text: tok.Text(), Offset: tok.BeginsPos()}
	}
	return records
}

// Tokens writes one token per line, or a token array for json/yaml.
func Tokens(w io.Writer, tokens []expression.Token, opts Options) error {
	switch opts.Format {
	case config.JSONFormat:
		return DumpJSON(w, TokenRecords(tokens), opts)

	case config.YAMLFormat:
		b, err := yaml.Marshal(TokenRecords(tokens))
		if err != nil {
			return fmt.Errorf("yaml.Marshal: %w", err)
		}
		if _, err = w.Write(b); err != nil {
			return fmt.Errorf("w.Write: %w", err)
		}
		return nil

	default:
		for _, tok := range tokens {
			if _, err := fmt.Fprintf(w, "%-8s %s\n", expression.KindOf(tok), tok.Text()); err != nil {
				return fmt.Errorf("fmt.Fprintf: %w", err)
			}
		}
		return nil
	}
}

// DumpJSON writes v as indented JSON, colorized when opts allow it for w.
func DumpJSON(w io.Writer, v any, opts Options) error {
	encOpts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if opts.UseColor(w) {
		encOpts = append(encOpts, json.Colorize(json.DefaultColorScheme))
	}

	indent := opts.Indent
	if indent == "" {
		indent = "\t"
	}
	b, err := json.MarshalIndentWithOption(v, "", indent, encOpts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
