package expression

import (
	"io"

	"github.com/samber/lo"
)

// parseBlock parses expressions until the upcoming token is one of
// terminators or the input runs out. The terminator is left unconsumed.
func (p *parser) parseBlock(terminators ...string) (*Cons, error) {
	block := &Cons{Tag: doTag}
	for {
		tok, err := p.lex.Peek()
		if err == io.EOF {
			return block, nil
		} else if err != nil {
			return nil, err
		}
		if _, isOP := tok.(*OperatorToken); isOP && lo.Contains(terminators, tok.Text()) {
			return block, nil
		}

		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		block.Children = append(block.Children, e)
	}
}

// parseCommaList parses `expr (, expr)*` up to (not including) closer.
// An immediate closer yields an empty list.
func (p *parser) parseCommaList(tag, closer string) (*Cons, error) {
	list := &Cons{Tag: tag}
	if tok, err := p.lex.Peek(); err == nil && isOperator(tok, closer) {
		return list, nil
	}

	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, e)

		tok, err := p.lex.Peek()
		if err == io.EOF {
			return list, nil
		} else if err != nil {
			return nil, err
		}
		if !isOperator(tok, ",") {
			return list, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
	}
}

// parseGroup handles `( ... )`. A single element collapses to itself,
// which is what tells grouping apart from a sequence.
func (p *parser) parseGroup() (Expr, error) {
	seq, err := p.parseCommaList(seqTag, ")")
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if len(seq.Children) == 1 {
		return seq.Children[0], nil
	}
	return seq, nil
}

func (p *parser) parseDelimited(tag, closer string) (Expr, error) {
	list, err := p.parseCommaList(tag, closer)
	if err != nil {
		return nil, err
	}
	if err := p.expect(closer); err != nil {
		return nil, err
	}
	return list, nil
}

// parseEndBlock parses a block closed by `end` and consumes the `end`.
func (p *parser) parseEndBlock() (*Cons, error) {
	body, err := p.parseBlock("end")
	if err != nil {
		return nil, err
	}
	if err := p.expect("end"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *parser) parseDo() (Expr, error) {
	return p.parseEndBlock()
}

// parseIf handles `if cond then ... [else ...] end`.
func (p *parser) parseIf() (Expr, error) {
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect("then"); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock("else", "end")
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.Next()
	if err == io.EOF {
		return nil, unexpectedEOFError(p.source, "else or end")
	} else if err != nil {
		return nil, err
	}
	if isOperator(tok, "end") {
		return &Cons{Tag: ifTag, Children: []Expr{cond, thenBody}}, nil
	}
	if !isOperator(tok, "else") {
		return nil, expectedTokenError(p.source, tok, "else or end")
	}

	elseBody, err := p.parseEndBlock()
	if err != nil {
		return nil, err
	}
	return &Cons{Tag: ifTag, Children: []Expr{cond, thenBody, elseBody}}, nil
}

// parseMatch handles `match x with if pattern then body ... end`.
func (p *parser) parseMatch() (Expr, error) {
	scrutinee, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect("with"); err != nil {
		return nil, err
	}

	arms := &Cons{Tag: withTag}
	for {
		tok, err := p.lex.Peek()
		if err == io.EOF {
			return nil, unexpectedEOFError(p.source, "end")
		} else if err != nil {
			return nil, err
		}
		if isOperator(tok, "end") {
			break
		}

		arm, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		arms.Children = append(arms.Children, arm)
	}
	if err := p.expect("end"); err != nil {
		return nil, err
	}

	return &Cons{Tag: matchTag, Children: []Expr{scrutinee, arms}}, nil
}

// The pattern slot uses the ordinary expression grammar.
func (p *parser) parseMatchArm() (Expr, error) {
	if err := p.expect("if"); err != nil {
		return nil, err
	}
	pattern, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect("then"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return &Cons{Tag: caseTag, Children: []Expr{pattern, body}}, nil
}

func (p *parser) parseLoop() (Expr, error) {
	body, err := p.parseEndBlock()
	if err != nil {
		return nil, err
	}
	return &Cons{Tag: loopTag, Children: []Expr{body}}, nil
}

// parseFunction handles `function (a, b) ... end` and `function a ... end`.
func (p *parser) parseFunction() (Expr, error) {
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseEndBlock()
	if err != nil {
		return nil, err
	}
	return &Cons{Tag: functionTag, Children: []Expr{params, body}}, nil
}

func (p *parser) parseParams() (*Cons, error) {
	tok, err := p.lex.Peek()
	if err == io.EOF {
		return nil, unexpectedEOFError(p.source, "parameters")
	} else if err != nil {
		return nil, err
	}

	if !isOperator(tok, "(") {
		param, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &Cons{Tag: paramsTag, Children: []Expr{param}}, nil
	}

	if _, err := p.lex.Next(); err != nil {
		return nil, err
	}
	params, err := p.parseCommaList(paramsTag, ")")
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}
