package utils

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/repr"
)

// Color is an ANSI escape code for CLI output.
type Color string

const (
	Gray       Color = "\x1b[90m"
	Red        Color = "\x1b[31m"
	Green      Color = "\x1b[32m"
	Gold       Color = "\x1b[33m"
	LightRed   Color = "\x1b[91m"
	LightGreen Color = "\x1b[92m"
	LightPink  Color = "\x1b[95m"
	Bold       Color = "\x1b[1m"
	Underline  Color = "\x1b[4m"
	Reset      Color = "\x1b[00m"
)

// Colorize wraps a string with the given ANSI color code.
func Colorize(s string, c Color) string {
	return string(c) + s + string(Reset)
}

// DebugEnabled reports whether the DEBUG environment variable is set.
func DebugEnabled() bool {
	_, ok := os.LookupEnv("DEBUG")
	return ok
}

// Dbg dumps a value with a label when DEBUG is set.
func Dbg(label string, value interface{}) {
	if !DebugEnabled() {
		return
	}
	fmt.Printf("%s %s: %s\n",
		Colorize("[DEBUG]", Gray),
		Colorize(label, LightPink),
		repr.String(value, repr.Indent("  ")))
}

// DbgPlain prints an already formatted value with a label when DEBUG is set.
func DbgPlain(label, value string) {
	if !DebugEnabled() {
		return
	}
	fmt.Printf("%s %s: %s\n",
		Colorize("[DEBUG]", Gray),
		Colorize(label, LightPink),
		value)
}

// DbgFileIfEnv writes data to a file if the given environment variable is
// set.
func DbgFileIfEnv(data, file, envVar string) {
	if _, ok := os.LookupEnv(envVar); !ok {
		return
	}
	if err := ioutil.WriteFile(file, []byte(data), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %s\n", file, err)
	}
}

// MeasureTime runs f and prints how long it took when DEBUG is set.
func MeasureTime(label string, f func()) {
	if !DebugEnabled() {
		f()
		return
	}
	start := time.Now()
	f()
	fmt.Printf("%s %s  %s took: %s\n",
		Colorize("[DEBUG]", Gray),
		Colorize("⏱", Gold),
		label,
		Colorize(time.Since(start).String(), LightGreen))
}

// TmpDir returns the temporary directory, honoring TMPDIR.
func TmpDir() string {
	if dir := os.Getenv("TMPDIR"); dir != "" {
		return dir
	}
	return "/tmp"
}

// TmpFname returns a unique temporary file path with the given prefix.
func TmpFname(prefix string) string {
	return fmt.Sprintf("%s/%s_%d", TmpDir(), prefix, time.Now().UnixNano())
}

// EscapeString escapes backslashes and double quotes so a string can be
// embedded in a quoted data-section literal.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// PrintAndFlush prints a message and flushes standard output.
func PrintAndFlush(m string) {
	fmt.Print(m)
	os.Stdout.Sync()
}
