// lispfront reads a source file and prints its tokens, parse tree or AST.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/xiam/lispfront"
	"github.com/xiam/lispfront/ast"
)

const formatFlagName = "format"

// ast output formats
const (
	formatString = "string"
	formatTree   = "tree"
	formatSource = "source"
)

type command struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *logrus.Logger
	opts   lispfront.Options
}

func newApp(stdin io.Reader, stdout io.Writer, stderr io.Writer) *cli.App {
	cmd := &command{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	return &cli.App{
		Name:        "lispfront",
		Usage:       "lex, parse and lower lisp source files",
		Description: "Reads the given file, or stdin, and runs it through the pipeline up to the requested stage.",
		Reader:      stdin,
		Writer:      stdout,
		ErrWriter:   stderr,
		Flags:       AsCliFlags(),
		Before:      cmd.setup,
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "print one token per line",
				ArgsUsage: "[file]",
				Action:    cmd.printTokens,
			},
			{
				Name:      "tree",
				Usage:     "print the parse tree",
				ArgsUsage: "[file]",
				Action:    cmd.printTree,
			},
			{
				Name:      "ast",
				Usage:     "print one top level expression per line",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  formatFlagName,
						Value: formatString,
						Usage: "one of string, tree or source",
					},
				},
				Action: cmd.printAST,
			},
		},
	}
}

func (cmd *command) setup(ctx *cli.Context) error {
	config, err := configFromContext(ctx)
	if err != nil {
		return err
	}

	cmd.logger = logrus.New()
	cmd.logger.SetOutput(cmd.stderr)

	cmd.opts, err = config.Options(cmd.logger)
	if err != nil {
		return err
	}

	cmd.logger.WithFields(logrus.Fields{
		"max_depth": config.MaxDepth,
		"log_level": config.LogLevel,
	}).Debug("lispfront: configured")
	return nil
}

// open returns a reader for the file named in the first argument, or stdin.
func (cmd *command) open(ctx *cli.Context) (*lispfront.Reader, func() error, error) {
	if ctx.NArg() > 1 {
		return nil, nil, errors.Errorf("expected at most one file, got %d arguments", ctx.NArg())
	}

	var (
		in   = cmd.stdin
		done = func() error { return nil }
	)

	if filename := ctx.Args().First(); filename != "" && filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open source")
		}
		in, done = f, f.Close
	}

	r := lispfront.NewReader(in)
	r.SetOptions(cmd.opts)
	return r, done, nil
}

func (cmd *command) printTokens(ctx *cli.Context) error {
	r, done, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	tokens, err := r.Tokens()
	if err != nil {
		return err
	}

	for _, tok := range tokens {
		line, col := tok.Pos()
		if _, err := fmt.Fprintf(cmd.stdout, "%d:%d\t%v\t%q\n", line, col, tok.Type(), tok.Text()); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *command) printTree(ctx *cli.Context) error {
	r, done, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	root, err := r.Tree()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.stdout, root)
	return err
}

func (cmd *command) printAST(ctx *cli.Context) error {
	format := ctx.String(formatFlagName)
	switch format {
	case formatString, formatTree, formatSource:
	default:
		return errors.Errorf("unknown format %q", format)
	}

	r, done, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer done()

	program, err := r.Read()
	if err != nil {
		return err
	}

	switch format {
	case formatTree:
		return ast.Print(cmd.stdout, program)
	case formatSource:
		_, err = fmt.Fprintf(cmd.stdout, "%s\n", ast.Encode(program))
		return err
	}

	for _, expr := range program.Body {
		if _, err := fmt.Fprintln(cmd.stdout, expr); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lispfront: %v\n", err)
		os.Exit(1)
	}
}
