package livestatus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvRenderer streams the default livestatus wire format: configurable
// dataset/field/list/list-item separators, no escaping of any kind — a
// field containing the separator byte is simply indistinguishable from two
// fields, which is why real livestatus clients choose Separators:
// characters that can't appear in the data, or switch to json.
type csvRenderer struct {
	renderBase
	sep [4]string
}

func (r *csvRenderer) Start(columnNames []string, columnHeaders bool) error {
	if err := r.requireState(RenderIdle, "Start"); err != nil {
		return err
	}
	r.state = RenderStarted
	if columnHeaders && len(columnNames) > 0 {
		row := make([]interface{}, len(columnNames))
		for i, name := range columnNames {
			row[i] = name
		}
		return r.WriteRow(row)
	}
	return nil
}

func (r *csvRenderer) WriteRow(values []interface{}) error {
	if r.state != RenderStarted && r.state != RenderStreaming {
		return fmt.Errorf("renderer: WriteRow called before Start")
	}
	r.state = RenderStreaming
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteString(r.sep[1])
		}
		sb.WriteString(formatFieldValue(v, r.sep[2], r.sep[3]))
	}
	sb.WriteString(r.sep[0])
	_, err := fmt.Fprint(r.w, sb.String())
	return err
}

func (r *csvRenderer) Finish() error {
	if r.state == RenderIdle {
		r.state = RenderStarted
	}
	r.state = RenderFinished
	return nil
}

func (r *csvRenderer) State() RenderState { return r.state }

// ValueAsString renders a value using the default separators, for
// contexts that need a Column's group-by representation outside of
// rendering a response (e.g. refschema's funcColumn.ValueAsString).
func ValueAsString(v interface{}) string {
	return formatFieldValue(v, defaultListSep, defaultListItemSep)
}

// formatFieldValue renders one column value as plain text, the same
// widening every format shares: time.Time to unix seconds, bool to 0/1,
// float64 to a whole number when it has no fractional part, []string
// joined by listSep, and map[string]float64 (perfdata aggregation
// results) as "name=value" pairs joined by listItemSep.
func formatFieldValue(v interface{}, listSep, listItemSep string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 6, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		if val.IsZero() {
			return "0"
		}
		return strconv.FormatInt(val.Unix(), 10)
	case []string:
		return strings.Join(val, listSep)
	case map[string]float64:
		parts := make([]string, 0, len(val))
		for name, n := range val {
			parts = append(parts, fmt.Sprintf("%s=%s", name, formatFieldValue(n, listSep, listItemSep)))
		}
		return strings.Join(parts, listItemSep)
	default:
		return fmt.Sprintf("%v", val)
	}
}
