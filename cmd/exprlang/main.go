package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp"

	"github.com/karupanerura/exprlang/internal/config"
	"github.com/karupanerura/exprlang/internal/render"
	"github.com/karupanerura/exprlang/internal/server"
	"github.com/karupanerura/exprlang/internal/watch"
)

const version = "0.1.0"

const (
	exitOK      = 0
	exitSyntax  = 1
	exitLexical = 2
	exitUsage   = 64
)

type Option struct {
	Config  string `short:"c" long:"config" description:"[OPTIONAL] Config file (.yaml, .yml, .json or .toml)"`
	Format  string `short:"o" long:"format" description:"[OPTIONAL] Output format" choice:"sexpr" choice:"json" choice:"yaml" choice:"pp"`
	Color   string `long:"color" description:"[OPTIONAL] Colorize output" choice:"auto" choice:"always" choice:"never"`
	Tokens  bool   `short:"t" long:"tokens" description:"[OPTIONAL] Print tokens instead of the tree"`
	Debug   bool   `short:"d" long:"debug" description:"[OPTIONAL] Log tokens and the parsed tree"`
	Expr    string `short:"e" long:"expr" description:"[OPTIONAL] Parse the given source instead of files"`
	Watch   bool   `short:"w" long:"watch" description:"[OPTIONAL] Parse again whenever a file changes"`
	Listen  string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the parse API"`
	Version bool   `short:"v" long:"version" description:"Print the version"`
	Args    struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [FILE...]"
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		parser.WriteHelp(os.Stdout)
		return exitUsage
	}
	if opt.Version {
		fmt.Printf("exprlang v%s\n", version)
		return exitOK
	}
	if (opt.Expr != "" && len(opt.Args.Files) != 0) || (opt.Watch && len(opt.Args.Files) == 0) {
		parser.WriteHelp(os.Stdout)
		return exitUsage
	}

	cfg, err := loadConfig(&opt)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitUsage
	}
	opts := render.OptionsFromConfig(cfg)
	pp.ColoringEnabled = opts.UseColor(os.Stdout)

	// server mode
	if cfg.Listen != "" {
		if err := serve(cfg.Listen, opts); err != nil {
			log.Printf("failed to serve: %v", err)
			return exitSyntax
		}
		return exitOK
	}

	r := &runner{cfg: cfg, opts: opts, stdout: os.Stdout, stderr: os.Stderr}
	units, err := collectUnits(&opt)
	if err != nil {
		log.Printf("failed to read source: %v", err)
		return exitSyntax
	}

	code := r.run(units)
	if !opt.Watch || code == exitLexical {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = watch.Files(ctx, opt.Args.Files, func(path string) {
		units, err := readUnits(ctx, []string{path})
		if err != nil {
			log.Printf("failed to read source: %v", err)
			return
		}
		r.run(units)
	})
	if err != nil {
		log.Printf("failed to watch files: %v", err)
		return exitSyntax
	}
	return code
}

func loadConfig(opt *Option) (*config.Config, error) {
	cfg := config.Default()
	if opt.Config != "" {
		var err error
		cfg, err = config.Load(opt.Config)
		if err != nil {
			return nil, err
		}
	}

	if opt.Format != "" {
		cfg.Format = config.Format(opt.Format)
	}
	if opt.Color != "" {
		cfg.Color = config.ColorMode(opt.Color)
	}
	if opt.Tokens {
		cfg.Tokens = true
	}
	if opt.Debug {
		cfg.Debug = true
	}
	if opt.Listen != "" {
		cfg.Listen = opt.Listen
	}
	return cfg, cfg.Validate()
}

func collectUnits(opt *Option) ([]unit, error) {
	if opt.Expr != "" {
		return []unit{{name: "<expr>", source: opt.Expr}}, nil
	}
	if len(opt.Args.Files) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("io.ReadAll: %w", err)
		}
		return []unit{{name: "<stdin>", source: string(b)}}, nil
	}
	return readUnits(context.Background(), opt.Args.Files)
}

func serve(listen string, opts render.Options) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(opts),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}
