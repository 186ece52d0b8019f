package diag

import "testing"

func TestFindErrorLineLexFailure(t *testing.T) {
	src := "print(1)\nlet a = @\nprint(2)"

	line, ok := FindErrorLine(src)
	if !ok || line != 2 {
		t.Errorf("got line %d (found=%t), expected 2", line, ok)
	}
}

func TestFindErrorLineParseFailure(t *testing.T) {
	src := "print(1)\nprint(\nprint(2)"

	line, ok := FindErrorLine(src)
	if !ok || line != 2 {
		t.Errorf("got line %d (found=%t), expected 2", line, ok)
	}
}

func TestFindErrorLineSemanticFailure(t *testing.T) {
	// The scratch compiler carries earlier declarations, so only the
	// undefined variable on line 3 fails.
	src := "let a = 1\nprint(a)\nprint(b)"

	line, ok := FindErrorLine(src)
	if !ok || line != 3 {
		t.Errorf("got line %d (found=%t), expected 3", line, ok)
	}
}

func TestFindErrorLineSkipsCommentsAndBlanks(t *testing.T) {
	src := "// header\n\nprint(1)\nfoo()"

	line, ok := FindErrorLine(src)
	if !ok || line != 4 {
		t.Errorf("got line %d (found=%t), expected 4", line, ok)
	}
}

func TestFindErrorLineCleanSource(t *testing.T) {
	src := "let a = 1\nprint(a)"

	if line, ok := FindErrorLine(src); ok {
		t.Errorf("expected no error line, got %d", line)
	}
}
