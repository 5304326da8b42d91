package livestatus

import (
	"fmt"
	"strconv"
	"time"
)

// jsonRenderer streams either the plain JSON array-of-arrays format or,
// when wrapped is set, the {"columns":[...],"data":[...],"total_count":N}
// object form. Because total_count isn't known until every row has been
// seen, the wrapped form buffers rows in memory rather than streaming —
// the plain form streams row by row.
type jsonRenderer struct {
	renderBase
	wrapped     bool
	columnNames []string
	rowCount    int
	firstRow    bool
	buffered    [][]interface{} // wrapped mode only
}

func (r *jsonRenderer) Start(columnNames []string, columnHeaders bool) error {
	if err := r.requireState(RenderIdle, "Start"); err != nil {
		return err
	}
	r.columnNames = columnNames
	r.firstRow = true
	if !r.wrapped {
		if _, err := fmt.Fprint(r.w, "["); err != nil {
			return err
		}
		if columnHeaders && len(columnNames) > 0 {
			if err := r.writeHeaderRow(); err != nil {
				return err
			}
			r.firstRow = false
		}
	}
	r.state = RenderStarted
	return nil
}

func (r *jsonRenderer) writeHeaderRow() error {
	row := make([]interface{}, len(r.columnNames))
	for i, name := range r.columnNames {
		row[i] = name
	}
	return r.writeRowValues(row)
}

func (r *jsonRenderer) writeRowValues(values []interface{}) error {
	if !r.firstRow {
		if _, err := fmt.Fprint(r.w, ","); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(r.w, "["); err != nil {
		return err
	}
	for i, v := range values {
		if i > 0 {
			if _, err := fmt.Fprint(r.w, ","); err != nil {
				return err
			}
		}
		writeJSONValue(r.w, v)
	}
	if _, err := fmt.Fprint(r.w, "]"); err != nil {
		return err
	}
	r.firstRow = false
	return nil
}

func (r *jsonRenderer) WriteRow(values []interface{}) error {
	if r.state != RenderStarted && r.state != RenderStreaming {
		return fmt.Errorf("renderer: WriteRow called before Start")
	}
	r.state = RenderStreaming
	r.rowCount++
	if r.wrapped {
		r.buffered = append(r.buffered, values)
		return nil
	}
	return r.writeRowValues(values)
}

func (r *jsonRenderer) Finish() error {
	if r.state == RenderIdle {
		return fmt.Errorf("renderer: Finish called before Start")
	}
	if r.wrapped {
		if _, err := fmt.Fprint(r.w, `{"columns":[`); err != nil {
			return err
		}
		for i, name := range r.columnNames {
			if i > 0 {
				fmt.Fprint(r.w, ",")
			}
			writeJSONValue(r.w, name)
		}
		fmt.Fprint(r.w, `],"data":[`)
		for i, row := range r.buffered {
			if i > 0 {
				fmt.Fprint(r.w, ",")
			}
			fmt.Fprint(r.w, "[")
			for j, v := range row {
				if j > 0 {
					fmt.Fprint(r.w, ",")
				}
				writeJSONValue(r.w, v)
			}
			fmt.Fprint(r.w, "]")
		}
		fmt.Fprintf(r.w, `],"total_count":%d}`, len(r.buffered))
	} else {
		if _, err := fmt.Fprint(r.w, "]"); err != nil {
			return err
		}
	}
	fmt.Fprint(r.w, "\n")
	r.state = RenderFinished
	return nil
}

func (r *jsonRenderer) State() RenderState { return r.state }

// writeJSONValue serializes one renderer value, widening time.Time/bool/
// []string/map[string]float64 to their JSON-safe shapes and escaping
// every rune above 0x7E as \uXXXX (a surrogate pair above U+FFFF) so output
// stays pure ASCII regardless of locale — the same defensive escaping the
// python renderer applies; csv output is not escaped.
func writeJSONValue(w interface{ Write([]byte) (int, error) }, v interface{}) {
	switch val := v.(type) {
	case nil:
		fmt.Fprint(w, "null")
	case string:
		writeJSONString(w, val)
	case int:
		fmt.Fprint(w, strconv.Itoa(val))
	case int64:
		fmt.Fprint(w, strconv.FormatInt(val, 10))
	case float64:
		fmt.Fprint(w, strconv.FormatFloat(val, 'g', -1, 64))
	case bool:
		if val {
			fmt.Fprint(w, "1")
		} else {
			fmt.Fprint(w, "0")
		}
	case time.Time:
		if val.IsZero() {
			fmt.Fprint(w, "0")
		} else {
			fmt.Fprint(w, strconv.FormatInt(val.Unix(), 10))
		}
	case []string:
		fmt.Fprint(w, "[")
		for i, s := range val {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			writeJSONString(w, s)
		}
		fmt.Fprint(w, "]")
	case map[string]float64:
		fmt.Fprint(w, "{")
		first := true
		for k, n := range val {
			if !first {
				fmt.Fprint(w, ",")
			}
			first = false
			writeJSONString(w, k)
			fmt.Fprint(w, ":")
			fmt.Fprint(w, strconv.FormatFloat(n, 'g', -1, 64))
		}
		fmt.Fprint(w, "}")
	default:
		writeJSONString(w, fmt.Sprintf("%v", val))
	}
}

func writeJSONString(w interface{ Write([]byte) (int, error) }, s string) {
	fmt.Fprint(w, `"`)
	for _, r := range s {
		switch {
		case r == '"':
			fmt.Fprint(w, `\"`)
		case r == '\\':
			fmt.Fprint(w, `\\`)
		case r == '\n':
			fmt.Fprint(w, `\n`)
		case r == '\r':
			fmt.Fprint(w, `\r`)
		case r == '\t':
			fmt.Fprint(w, `\t`)
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(w, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		case r < 0x20 || r > 0x7E:
			fmt.Fprintf(w, `\u%04x`, r)
		default:
			fmt.Fprintf(w, "%c", r)
		}
	}
	fmt.Fprint(w, `"`)
}
