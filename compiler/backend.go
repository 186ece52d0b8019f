package compiler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/blacklang/black/utils"
)

// preamble is the fixed runtime prepended to every emitted program. It
// provides the formatting blobs and the two helper functions the emitter
// calls into: $printb for bool values and $divw for checked division.
const preamble = `data $fmt_int = { b "%d", b 0 }
data $space = { b " ", b 0 }
data $endl = { b 10, b 0 }
data $true_str = { b "true", b 0 }
data $false_str = { b "false", b 0 }
data $div_zero_msg = { b "Error: division by zero", b 10, b 0 }
function w $printb(w %b) {
@start
	jnz %b, @istrue, @isfalse
@istrue
	call $printf(l $true_str)
	ret 0
@isfalse
	call $printf(l $false_str)
	ret 0
}
function w $divw(w %a, w %b) {
@start
	jnz %b, @ok, @fail
@fail
	call $printf(l $div_zero_msg)
	call $exit(w 1)
	ret 0
@ok
	%r =w div %a, %b
	ret %r
}
`

// Options configures the backend handoff.
type Options struct {
	// Output is the path of the native executable to produce.
	Output string
	// Static requests static linking.
	Static bool
	// Qbe and Cc override the backend and linker driver binaries.
	Qbe string
	Cc  string
	// DumpIR prints the complete IR instead of invoking the backend.
	DumpIR bool
}

// Compile generates IR for the loaded AST, runs it through the external
// code generator, and assembles and links the result into a native
// executable at Options.Output.
//
// A non-zero exit from either external process is an internal-tool error,
// not a user source error; it comes back wrapped with a stack trace and is
// never retried.
func (c *Compiler) Compile(opts Options) error {
	generated, err := c.GenerateIR()
	if err != nil {
		return err
	}
	ir := preamble + generated

	if opts.DumpIR {
		fmt.Println(ir)
		return nil
	}

	utils.Dbg("Variables", c.variables)
	utils.DbgPlain("Compiled IR", ir)
	utils.DbgFileIfEnv(ir, "debug.ir", "SAVE_IR")

	qbe := opts.Qbe
	if qbe == "" {
		qbe = "qbe"
	}
	cc := opts.Cc
	if cc == "" {
		cc = "cc"
	}

	var asm bytes.Buffer
	utils.MeasureTime("QBE execution", func() {
		err = runBackend(qbe, []string{"-"}, strings.NewReader(ir), &asm)
	})
	if err != nil {
		return err
	}

	utils.DbgPlain("QBE output", asm.String())
	utils.DbgFileIfEnv(asm.String(), "debug.asm", "SAVE_ASM")

	ccArgs := []string{"-x", "assembler"}
	if opts.Static {
		ccArgs = append(ccArgs, "-static")
	}
	ccArgs = append(ccArgs, "-o", opts.Output, "-")

	var ccOut bytes.Buffer
	utils.MeasureTime("CC execution", func() {
		err = runBackend(cc, ccArgs, &asm, &ccOut)
	})
	if err != nil {
		return err
	}

	if ccOut.Len() != 0 {
		utils.DbgPlain("CC output", ccOut.String())
	}

	return nil
}

// runBackend feeds a process its whole input stream and drains its whole
// output stream before waiting on it. Handing os/exec a reader and a
// buffer makes it pump both pipes on separate goroutines, so a large
// payload cannot deadlock on a full pipe.
func runBackend(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return tracerr.Wrap(fmt.Errorf("%s: %w", name, err))
	}
	return nil
}
