package expression

import (
	"fmt"
	"strconv"
	"strings"
)

var textEscapeReplacer = strings.NewReplacer(
	"\\n", "\n",
	"\\\"", `"`,
	"\\r", "\r",
	"\\t", "\t",
	"\\\\", "\\",
)

// Value decodes the literal held by the atom: int64 or float64 for numbers,
// bool, nil for unit, the unescaped content for text and the name for ids.
func (a *Atom) Value() (any, error) {
	switch a.Kind {
	case NumberAtom:
		if strings.IndexByte(a.Text, '.') == -1 {
			v, err := strconv.ParseInt(a.Text, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %s: %w", a.Text, err)
			}
			return v, nil
		}
		v, err := strconv.ParseFloat(a.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", a.Text, err)
		}
		return v, nil

	case BoolAtom:
		return strconv.ParseBool(a.Text)

	case UnitAtom:
		return nil, nil

	case TextAtom:
		if len(a.Text) < 2 {
			return nil, fmt.Errorf("invalid text literal %s", a.Text)
		}
		return unescapeText(a.Text[1 : len(a.Text)-1]), nil

	case IDAtom:
		return a.Text, nil

	default:
		return nil, fmt.Errorf("unknown atom kind %q", a.Kind)
	}
}

// unescapeText resolves the common escapes; any other escaped rune
// stands for itself.
func unescapeText(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		if r := textEscapeReplacer.Replace(s[i : i+2]); r != s[i:i+2] {
			b.WriteString(r)
		} else {
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}
