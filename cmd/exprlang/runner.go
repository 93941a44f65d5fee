package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/karupanerura/exprlang/internal/config"
	"github.com/karupanerura/exprlang/internal/expression"
	"github.com/karupanerura/exprlang/internal/render"
	"github.com/karupanerura/exprlang/internal/types"
)

type unit struct {
	name   string
	source string
}

type outcome struct {
	program *expression.Cons
	tokens  []expression.Token
	err     error
	skipped bool
}

type runner struct {
	cfg    *config.Config
	opts   render.Options
	stdout io.Writer
	stderr io.Writer
}

func readUnits(ctx context.Context, paths []string) ([]unit, error) {
	units := make([]unit, len(paths))
	eg, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i := i
		path := path
		eg.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("os.ReadFile(%q): %w", path, err)
			}
			units[i] = unit{name: path, source: string(b)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// process parses units concurrently; outcomes keep the unit order.
// Units after a lexical failure may be skipped, and a lexical failure is
// also returned from the group.
func (r *runner) process(units []unit) ([]outcome, error) {
	parse := expression.Parse
	if r.cfg.Debug {
		parse = expression.ParseWithDebugOutput
	}

	outcomes := make([]outcome, len(units))
	firstFatal := int64(len(units))
	eg := errgroup.Group{}
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range units {
		i := i
		u := u
		eg.Go(func() error {
			if int64(i) > atomic.LoadInt64(&firstFatal) {
				outcomes[i].skipped = true
				return nil
			}

			o := &outcomes[i]
			if r.cfg.Tokens {
				o.tokens, o.err = expression.Tokenize(u.source)
			} else {
				o.program, o.err = parse(u.source)
			}
			if !errors.Is(o.err, expression.ErrLexical) {
				return nil
			}

			for {
				cur := atomic.LoadInt64(&firstFatal)
				if int64(i) >= cur || atomic.CompareAndSwapInt64(&firstFatal, cur, int64(i)) {
					break
				}
			}
			return fmt.Errorf("%s: %w", u.name, o.err)
		})
	}
	return outcomes, eg.Wait()
}

// run prints every outcome in order and returns the exit status.
// A lexical failure stops the run at the failing unit.
func (r *runner) run(units []unit) int {
	outcomes, fatal := r.process(units)
	if fatal != nil && r.cfg.Debug {
		log.Printf("lexical failure: %v", fatal)
	}

	code := exitOK
	for i, o := range outcomes {
		name := units[i].name
		if o.skipped {
			break
		}
		if o.err == nil {
			if err := r.write(o); err != nil {
				log.Printf("failed to write %s: %v", name, err)
				code = exitSyntax
			}
			continue
		}

		r.report(name, o)
		if errors.Is(o.err, expression.ErrLexical) {
			return exitLexical
		}
		code = exitSyntax
	}
	return code
}

func (r *runner) write(o outcome) error {
	if r.cfg.Tokens {
		return render.Tokens(r.stdout, o.tokens, r.opts)
	}
	return render.Tree(r.stdout, o.program, r.opts)
}

func (r *runner) report(name string, o outcome) {
	if _, err := fmt.Fprintf(r.stderr, "%s: %v\n", name, o.err); err != nil {
		log.Printf("failed to dump error: %v", err)
	}
	if o.program != nil && len(o.program.Children) != 0 {
		if _, err := fmt.Fprintf(r.stderr, "%s: recognized before failure: %s\n", name, o.program); err != nil {
			log.Printf("failed to dump partial tree: %v", err)
		}
	}

	var exception types.Exception
	if r.cfg.Format == config.JSONFormat && errors.As(o.err, &exception) {
		if err := render.DumpJSON(r.stderr, exception.Exception(), r.opts); err != nil {
			log.Printf("failed to dump error as JSON: %v", err)
		}
	}
}
