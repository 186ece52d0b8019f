package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/blacklang/black/diag"
	"github.com/blacklang/black/interpreter"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
	"github.com/blacklang/black/utils"
)

const interactiveBanner = "╭──────────────────────╮\n" +
	"│   ☠︎︎  \x1b[1mBlack Lang\x1b[00m  ☠︎︎   │\n" +
	"│                      │\n" +
	"│ ⚓ \x1b[4mInteractive mode\x1b[00m  │\n" +
	"╰──────────────────────╯\n"

// runInteractive is the REPL: one interpreter stays alive for the whole
// session, so variables persist across input groups. Each group is
// re-lexed and re-parsed on its own, and an error aborts only that group.
func runInteractive() {
	utils.PrintAndFlush(interactiveBanner)

	interp := interpreter.New()
	reader := bufio.NewReader(os.Stdin)

	for {
		utils.PrintAndFlush(">>> ")

		input, err := readGroup(reader)
		if err != nil {
			// EOF: leave the session cleanly
			fmt.Println()
			return
		}

		runGroup(interp, input)
	}
}

// readGroup reads lines until a blank line terminates the group. `exit`
// and `quit` end the session.
func readGroup(reader *bufio.Reader) (string, error) {
	var input strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" || trimmed == "quit" {
			os.Exit(0)
		}

		input.WriteString(line)
		if strings.HasSuffix(input.String(), "\n\n") {
			break
		}

		utils.PrintAndFlush("  … ")
	}

	return strings.TrimSpace(input.String()), nil
}

func runGroup(interp *interpreter.Interpreter, input string) {
	code := lexer.Preprocess(input)

	// Staging file for the lifetime of this group, removed on every exit
	// path.
	stage := utils.TmpFname("black_interactive")
	if err := ioutil.WriteFile(stage, []byte(code), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write staging file: %s\n", err)
		return
	}
	defer os.Remove(stage)

	tokens, err := lexer.Lex(code)
	if err != nil {
		diag.DisplayError(err, code, diag.Stdout)
		return
	}

	ast, err := parser.New(tokens).Parse()
	if err != nil {
		diag.DisplayError(err, code, diag.Stdout)
		return
	}

	interp.Ast = ast

	// Clear the blank line that closed the group
	fmt.Print("\x1b[1A\x1b[2K")

	if err := interp.Run(); err != nil {
		diag.DisplayError(err, code, diag.Stdout)
	}
}
