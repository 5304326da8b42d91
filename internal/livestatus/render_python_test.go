package livestatus

import (
	"bytes"
	"testing"
)

func newPythonRenderer(t *testing.T) (*pythonRenderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, _, err := NewRenderer("python", &buf, 0, defaultSeparators())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r.(*pythonRenderer), &buf
}

func TestPythonRenderer_ArrayOfArrays(t *testing.T) {
	r, buf := newPythonRenderer(t)
	if err := r.Start([]string{"name", "state"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.WriteRow([]interface{}{"web1", 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[['name', 'state'], ['web1', 0]]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPythonRenderer_None(t *testing.T) {
	r, buf := newPythonRenderer(t)
	r.Start([]string{"x"}, false)
	r.WriteRow([]interface{}{nil})
	r.Finish()
	want := "[[None]]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWritePythonString_EscapesQuoteAndBackslash(t *testing.T) {
	var buf bytes.Buffer
	writePythonString(&buf, `it's a \test`)
	want := `'it\'s a \\test'`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWritePythonString_EscapesNonASCII(t *testing.T) {
	var buf bytes.Buffer
	writePythonString(&buf, "café")
	want := "'caf\\u00e9'"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
