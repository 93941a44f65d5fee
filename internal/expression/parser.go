package expression

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
)

const (
	doTag       = "do"
	seqTag      = "seq"
	listTag     = "list"
	tableTag    = "table"
	paramsTag   = "params"
	ifTag       = "if"
	matchTag    = "match"
	withTag     = "with"
	caseTag     = "case"
	loopTag     = "loop"
	breakTag    = "break"
	functionTag = "function"
)

var parserDebugLog = false

// maxNestingDepth bounds the recursion of parseExpr and parsePrimary
// together. Deeper input is a syntax error.
const maxNestingDepth = 1000

func init() {
	if v, err := strconv.ParseBool(os.Getenv("EXPRLANG_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	source string
	lex    *Lexer
	debug  bool
	depth  int
}

func newParser(source string, debug bool) *parser {
	lex := NewLexer(source)
	lex.debug = debug
	return &parser{source: source, lex: lex, debug: debug}
}

// Parse parses a whole program into a (do ...) node.
//
// On failure the returned node holds the expressions completed before the
// failing one, and the error is non-nil: a partial program is never a
// successful result. Use errors.Is with ErrLexical or ErrSyntax to tell
// the two failure kinds apart.
func Parse(source string) (*Cons, error) {
	return newParser(source, parserDebugLog).parseProgram()
}

// ParseWithDebugOutput is Parse with token and tree logging enabled.
func ParseWithDebugOutput(source string) (*Cons, error) {
	return newParser(source, true).parseProgram()
}

// ParseExpr parses source holding exactly one expression.
func ParseExpr(source string) (Expr, error) {
	p := newParser(source, parserDebugLog)
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok, err := p.lex.Peek(); err == nil {
		return nil, invalidTokenError(p.source, tok)
	} else if err != io.EOF {
		return nil, err
	}
	return e, nil
}

func (p *parser) parseProgram() (*Cons, error) {
	program := &Cons{Tag: doTag}
	for {
		if _, err := p.lex.Peek(); err == io.EOF {
			break
		} else if err != nil {
			return program, err
		}

		e, err := p.parseExpr(0)
		if err != nil {
			if p.debug {
				log.Printf("stopped after %d expression(s): %v", len(program.Children), err)
			}
			return program, err
		}
		program.Children = append(program.Children, e)
	}

	if p.debug {
		pp.Println(p.source)
		pp.Println(program)
		log.Println(program.String())
	}
	return program, nil
}

func (p *parser) parseExpr(minBP uint8) (Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNestingDepth {
		return nil, p.nestingError()
	}

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.lex.Peek()
		if err == io.EOF {
			return left, nil
		} else if err != nil {
			return nil, err
		}

		opTok, isOP := tok.(*OperatorToken)
		if !isOP {
			return left, nil
		}
		op := opTok.Text()
		bp, isInfixOP := infixOperatorBindingPowerMap[op]
		if !isInfixOP || bp.left < minBP {
			return left, nil
		}
		if p.debug {
			log.Println("OP", minBP, op, left.String())
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}

		if op == "(" {
			args, err := p.parseCommaList(paramsTag, ")")
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			left = &Call{Callee: left, Args: args.Children}
			continue
		}

		right, err := p.parseExpr(bp.right)
		if err != nil {
			return nil, err
		}
		left = &Cons{Tag: op, Children: []Expr{left, right}}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return nil, unexpectedEOFError(p.source, "an expression")
	} else if err != nil {
		return nil, err
	}

	// function parameters reach parsePrimary without going through parseExpr
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNestingDepth {
		return nil, nestingTooDeepError(p.source, tok)
	}

	switch t := tok.(type) {
	case *AtomToken:
		return &Atom{Text: t.Text(), Kind: t.Kind}, nil

	case *OperatorToken:
		op := t.Text()
		if bp, isPrefixOP := prefixOperatorBindingPowerMap[op]; isPrefixOP {
			operand, err := p.parseExpr(bp)
			if err != nil {
				return nil, err
			}
			return &Cons{Tag: op, Children: []Expr{operand}}, nil
		}

		switch op {
		case "(":
			return p.parseGroup()
		case "[":
			return p.parseDelimited(listTag, "]")
		case "{":
			return p.parseDelimited(tableTag, "}")
		case "do":
			return p.parseDo()
		case "if":
			return p.parseIf()
		case "match":
			return p.parseMatch()
		case "loop":
			return p.parseLoop()
		case "break":
			return &Cons{Tag: breakTag}, nil
		case "function":
			return p.parseFunction()
		}
	}

	if p.debug {
		log.Println("bad token: ", tok)
	}
	return nil, invalidTokenError(p.source, tok)
}

func (p *parser) nestingError() error {
	tok, err := p.lex.Peek()
	if err == io.EOF {
		return unexpectedEOFError(p.source, "an expression")
	} else if err != nil {
		return err
	}
	return nestingTooDeepError(p.source, tok)
}

// expect consumes the next token, which must be the operator or keyword text.
func (p *parser) expect(text string) error {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return unexpectedEOFError(p.source, text)
	} else if err != nil {
		return err
	}
	if !isOperator(tok, text) {
		return expectedTokenError(p.source, tok, text)
	}
	return nil
}
