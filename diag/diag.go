// Package diag renders user-facing errors and recovers the source line an
// error came from by re-scanning the program incrementally.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/blacklang/black/compiler"
	"github.com/blacklang/black/errors"
	"github.com/blacklang/black/lexer"
	"github.com/blacklang/black/parser"
	"github.com/blacklang/black/utils"
)

// Target selects where an error is rendered. Interactive sessions report
// on stdout; file-mode runs report on stderr.
type Target int

const (
	Stdout Target = iota
	Stderr
)

// DisplayError prints an error prefixed by its kind and, when it can be
// recovered from src, the offending line number.
func DisplayError(err error, src string, target Target) {
	out := os.Stdout
	if target == Stderr {
		out = os.Stderr
	}

	prefix := "[Error]"
	if _, ok := err.(errors.SyntaxError); ok {
		prefix = "[Syntax Error]"
	}

	lineNr := ""
	if nr, ok := FindErrorLine(src); ok {
		lineNr = fmt.Sprintf(" on line %d:", nr)
	}

	fmt.Fprintf(out, "%s%s %s\n", utils.Colorize(prefix, utils.LightRed), lineNr, err)
}

// FindErrorLine locates the line where the source first fails to lex,
// parse, or emit. It feeds the program line by line into a growing context
// and reports the line on which the pipeline first errors; a scratch
// compiler carries declarations across lines so later references resolve.
func FindErrorLine(source string) (int, bool) {
	currentLine := 1
	context := ""
	scratch := compiler.New()

	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(line, "//") || line == "" {
			currentLine++
			continue
		}

		line = strings.SplitN(line, "//", 2)[0]
		context += line + "\n"

		tokens, err := lexer.Lex(context)
		if err != nil {
			return currentLine, true
		}

		ast, err := parser.New(tokens).Parse()
		if err != nil {
			return currentLine, true
		}
		context = ""

		scratch.LoadAst(ast)
		if _, err := scratch.GenerateIR(); err != nil {
			return currentLine, true
		}

		currentLine++
	}

	return 0, false
}
