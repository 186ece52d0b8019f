package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/blacklang/black/compiler"
	"github.com/blacklang/black/diag"
	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/interpreter"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
	"github.com/blacklang/black/utils"
)

func main() {
	app := &cli.App{
		Name:      "black",
		Usage:     "Black Lang compiler and interpreter",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "output binary path",
			},
			&cli.BoolFlag{
				Name:    "interpreter",
				Aliases: []string{"i"},
				Usage:   "interpret instead of compiling to a binary",
			},
			&cli.BoolFlag{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "compile, then immediately execute the result",
			},
			&cli.BoolFlag{
				Name:  "static",
				Usage: "statically link the output binary",
			},
			&cli.BoolFlag{
				Name:  "dump-ir",
				Usage: "print the generated IR and stop",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		tracerr.PrintSourceColor(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		runInteractive()
		return nil
	}

	cfg := loadConfig()
	output := c.String("output")
	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		output = "out.app"
	}

	raw, err := ioutil.ReadFile(input)
	if err != nil {
		diag.DisplayError(
			errors.NewGenericError("Could not read source code file"),
			"", diag.Stderr)
		os.Exit(1)
	}

	var code string
	utils.MeasureTime("Preprocessing", func() {
		code = lexer.Preprocess(string(raw))
	})

	var tokens []lexer.Token
	utils.MeasureTime("Lexical Analysis", func() {
		tokens, err = lexer.Lex(code)
	})
	if err != nil {
		reportError(err, code)
	}
	utils.Dbg("Tokens", tokens)

	var ast parser.Ast
	utils.MeasureTime("Parsing", func() {
		ast, err = parser.New(tokens).Parse()
	})
	if err != nil {
		reportError(err, code)
	}
	utils.Dbg("AST", ast)

	if c.Bool("interpreter") {
		interp := interpreter.FromAst(ast)
		utils.MeasureTime("Interpreter Execution", func() {
			err = interp.Run()
		})
		if err != nil {
			reportError(err, code)
		}
		return nil
	}

	comp := compiler.FromAst(ast)
	opts := compiler.Options{
		Output: output,
		Static: c.Bool("static") || cfg.Static,
		Qbe:    cfg.Qbe,
		Cc:     cfg.Cc,
		DumpIR: c.Bool("dump-ir"),
	}
	utils.MeasureTime("Full Compiler Execution", func() {
		err = comp.Compile(opts)
	})
	if err != nil {
		reportError(err, code)
	}

	if c.Bool("run") && !opts.DumpIR {
		execute(output)
	}

	return nil
}

// reportError renders a user source error with its line number, or an
// internal-tool failure as a colored trace, then exits non-zero.
func reportError(err error, src string) {
	switch err.(type) {
	case errors.SyntaxError, errors.GenericError:
		diag.DisplayError(err, src, diag.Stderr)
	default:
		tracerr.PrintSourceColor(err)
	}
	os.Exit(1)
}

// execute runs the freshly compiled binary with inherited stdio.
func execute(output string) {
	path, err := filepath.Abs(output)
	if err != nil {
		tracerr.PrintSourceColor(tracerr.Wrap(err))
		os.Exit(1)
	}

	cmd := exec.Command(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "failed to execute %s: %s\n", path, err)
		os.Exit(1)
	}
}
