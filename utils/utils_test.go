package utils

import (
	"strings"
	"testing"
)

func TestEscapeString(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{`plain`, `plain`},
		{`a"b`, `a\"b`},
		{`a\b`, `a\\b`},
		{`\"`, `\\\"`},
	}
	for _, c := range cases {
		if got := EscapeString(c.in); got != c.out {
			t.Errorf("EscapeString(%q): got %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestColorize(t *testing.T) {
	got := Colorize("boom", LightRed)
	if !strings.HasPrefix(got, string(LightRed)) || !strings.HasSuffix(got, string(Reset)) {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "boom") {
		t.Errorf("got %q", got)
	}
}

func TestTmpFname(t *testing.T) {
	name := TmpFname("blk")
	if !strings.HasPrefix(name, TmpDir()+"/blk_") {
		t.Errorf("got %q", name)
	}
}
