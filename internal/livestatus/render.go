package livestatus

import (
	"fmt"
	"io"
)

// RenderState tracks a Renderer's position in its Idle → Started →
// Streaming → Finished lifecycle. Calling WriteRow before Start, or Start
// twice, or Finish twice, is a programming error in the executor, not a
// query-input error — callers are expected never to violate it.
type RenderState int

const (
	RenderIdle RenderState = iota
	RenderStarted
	RenderStreaming
	RenderFinished
)

// Renderer streams one query's result set in a particular wire format
// (csv, json, wrapped_json, python). The executor calls WriteRow once per
// surviving row; csv, json and python write each row through as it comes,
// while wrapped_json holds every row in memory until Finish. The executor
// collects the rendered output in a buffer and returns it whole.
type Renderer interface {
	// Start emits whatever the format needs before the first row (a JSON
	// "[", an optional CSV header line, ...).
	Start(columnNames []string, columnHeaders bool) error
	WriteRow(values []interface{}) error
	// Finish closes out the format (a JSON "]", nothing for CSV) and
	// moves the renderer to RenderFinished on success.
	Finish() error
	State() RenderState
}

// renderBase centralizes the state machine and the underlying writer so
// each format only implements the row/header framing.
type renderBase struct {
	w     io.Writer
	state RenderState
}

func (b *renderBase) requireState(want RenderState, op string) error {
	if b.state != want {
		return fmt.Errorf("renderer: %s called in state %d, want %d", op, b.state, want)
	}
	return nil
}

// sizeLimitedWriter enforces the query's soft output-size cap: once the
// cumulative byte count reaches limit, Exceeded reports true so the
// executor can stop pulling rows. Writes themselves are always passed
// through and never fail because of the cap (the cap is soft — the write
// that crosses it completes, so a row is never torn).
type sizeLimitedWriter struct {
	w        io.Writer
	written  int64
	limit    int64 // zero means unlimited
	exceeded bool
}

var errSizeLimitExceeded = fmt.Errorf("response size limit exceeded")

func (s *sizeLimitedWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.written += int64(n)
	if s.limit > 0 && s.written >= s.limit {
		s.exceeded = true
	}
	return n, err
}

// Exceeded reports whether the size cap has been crossed by a write
// already flushed.
func (s *sizeLimitedWriter) Exceeded() bool { return s.exceeded }

// NewRenderer constructs the Renderer for format, wrapping w in the
// query's size accounting.
func NewRenderer(format string, w io.Writer, sizeLimit int64, sep [4]string) (Renderer, *sizeLimitedWriter, error) {
	lw := &sizeLimitedWriter{w: w, limit: sizeLimit}
	switch format {
	case "csv", "":
		return &csvRenderer{renderBase: renderBase{w: lw}, sep: sep}, lw, nil
	case "json":
		return &jsonRenderer{renderBase: renderBase{w: lw}}, lw, nil
	case "wrapped_json":
		return &jsonRenderer{renderBase: renderBase{w: lw}, wrapped: true}, lw, nil
	case "python":
		return &pythonRenderer{renderBase: renderBase{w: lw}}, lw, nil
	default:
		return nil, nil, fmt.Errorf("unknown OutputFormat: %s", format)
	}
}
