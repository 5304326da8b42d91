package livestatus

import (
	"bytes"
	"testing"
)

func newJSONRenderer(t *testing.T, wrapped bool) (*jsonRenderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	format := "json"
	if wrapped {
		format = "wrapped_json"
	}
	r, _, err := NewRenderer(format, &buf, 0, defaultSeparators())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r.(*jsonRenderer), &buf
}

func TestJSONRenderer_PlainArrayOfArrays(t *testing.T) {
	r, buf := newJSONRenderer(t, false)
	if err := r.Start([]string{"name", "state"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.WriteRow([]interface{}{"web1", 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[["name","state"],["web1",0]]` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONRenderer_NoHeaders(t *testing.T) {
	r, buf := newJSONRenderer(t, false)
	r.Start([]string{"name"}, false)
	r.WriteRow([]interface{}{"web1"})
	r.Finish()
	want := `[["web1"]]` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONRenderer_WrappedFormat(t *testing.T) {
	r, buf := newJSONRenderer(t, true)
	r.Start([]string{"name"}, false)
	r.WriteRow([]interface{}{"web1"})
	r.WriteRow([]interface{}{"db1"})
	r.Finish()
	want := `{"columns":["name"],"data":[["web1"],["db1"]],"total_count":2}` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONRenderer_EmptyResultSet(t *testing.T) {
	r, buf := newJSONRenderer(t, false)
	r.Start([]string{"name"}, false)
	r.Finish()
	if buf.String() != "[]\n" {
		t.Errorf("got %q, want %q", buf.String(), "[]\n")
	}
}

func TestWriteJSONValue_EscapesNonASCII(t *testing.T) {
	var buf bytes.Buffer
	writeJSONValue(&buf, "café")
	got := buf.String()
	want := "\"caf\\u00e9\""
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteJSONValue_EscapesControlAndQuoteChars(t *testing.T) {
	var buf bytes.Buffer
	writeJSONValue(&buf, "a\"b\nc")
	got := buf.String()
	want := `"a\"b\nc"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteJSONValue_Nil(t *testing.T) {
	var buf bytes.Buffer
	writeJSONValue(&buf, nil)
	if buf.String() != "null" {
		t.Errorf("got %q, want null", buf.String())
	}
}

func TestWriteJSONValue_PerfdataMap(t *testing.T) {
	var buf bytes.Buffer
	writeJSONValue(&buf, map[string]float64{"time": 1.5})
	if buf.String() != `{"time":1.5}` {
		t.Errorf("got %q, want %q", buf.String(), `{"time":1.5}`)
	}
}
