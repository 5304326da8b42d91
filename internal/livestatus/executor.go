package livestatus

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ringwatch/gostatus/internal/logging"
	"github.com/ringwatch/gostatus/internal/trigger"
)

// defaultMaxResponseBytes is the soft cap applied to every rendered
// response; it bounds one unbounded "GET hosts" from exhausting server
// memory while still letting the row that crosses the boundary finish.
const defaultMaxResponseBytes = 64 << 20

// Execute runs a fully parsed query against reg (the trigger registry
// backing WaitTrigger:) and table, returning the framed response body. It
// never returns a Go error for a malformed or unauthorized query — those
// become part of the response text, exactly like real livestatus, so a
// client always gets a response object rather than a severed connection.
func Execute(ctx context.Context, q *Query, table Table, reg *trigger.Registry, logger *logging.Logger) string {
	if q.InvalidHeader != "" {
		return errorResponse(q, 400, q.InvalidHeader)
	}

	catalog := table.Columns()

	if err := resolveFilterTree(q.Filter, catalog); err != nil {
		return errorResponse(q, 400, err.Error())
	}
	if err := resolveFilterTree(q.WaitCondition, catalog); err != nil {
		return errorResponse(q, 400, err.Error())
	}
	if err := resolveStats(q.Stats, catalog); err != nil {
		return errorResponse(q, 400, err.Error())
	}
	groupNames := q.GroupBy
	if len(q.Stats) > 0 {
		// spec: in Stats: mode, Columns: names double as StatsGroupBy:
		// grouping columns rather than selected output columns.
		groupNames = append(append([]string(nil), q.GroupBy...), q.RawColumns...)
	}
	groupCols, err := resolveGroupBy(groupNames, catalog)
	if err != nil {
		return errorResponse(q, 400, err.Error())
	}

	if q.WaitObjectSpec != "" {
		obj, ok := table.FindObject(q.WaitObjectSpec)
		if !ok {
			return errorResponse(q, 404, fmt.Sprintf("unknown wait object %q", q.WaitObjectSpec))
		}
		waitCtx := ctx
		var cancel context.CancelFunc
		if q.WaitTimeout > 0 {
			waitCtx, cancel = context.WithTimeout(ctx, q.WaitTimeout)
			defer cancel()
		}
		spec := WaitSpec{Condition: q.WaitCondition, Trigger: q.WaitTrigger, Object: obj, Timeout: q.WaitTimeout}
		if logger != nil {
			logger.LogVerbose(logging.VerboseWait, "wait: table=%s object=%s trigger=%s", q.Table, q.WaitObjectSpec, q.WaitTrigger)
		}
		Await(waitCtx, reg, spec)
	}

	rows := table.Rows()

	if q.AuthUser != "" {
		authed := rows[:0:0]
		for _, row := range rows {
			if table.IsAuthorized(q.AuthUser, row) {
				authed = append(authed, row)
			}
		}
		rows = authed
	}

	deadline := time.Time{}
	if q.Timelimit > 0 {
		deadline = time.Now().Add(q.Timelimit)
	}

	filtered := make([]Row, 0, len(rows))
	for i, row := range rows {
		if !deadline.IsZero() && i%4096 == 0 && time.Now().After(deadline) {
			return errorResponse(q, 502, "query exceeded Timelimit")
		}
		if q.Filter == nil || q.Filter.Accepts(row) {
			filtered = append(filtered, row)
		}
	}

	if logger != nil {
		logger.LogVerbose(logging.VerboseLivestatus, "query: table=%s rows=%d filtered=%d", q.Table, len(rows), len(filtered))
	}

	if len(q.Stats) > 0 {
		return renderStats(q, filtered, groupCols)
	}

	sortRows(filtered, q.Sort, catalog)

	if q.Offset > 0 {
		if q.Offset >= len(filtered) {
			filtered = nil
		} else {
			filtered = filtered[q.Offset:]
		}
	}
	if q.Limit >= 0 && q.Limit < len(filtered) {
		filtered = filtered[:q.Limit]
	}

	cols, warnings := resolveColumns(table, q.RawColumns)
	for _, w := range warnings {
		if logger != nil {
			logger.Log("%s", w)
		}
	}

	return renderRows(q, cols, filtered)
}

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}

func renderRows(q *Query, cols []Column, rows []Row) string {
	var buf bytes.Buffer
	renderer, lw, err := NewRenderer(q.OutputFormat, &buf, defaultMaxResponseBytes, q.Separators)
	if err != nil {
		return errorResponse(q, 400, err.Error())
	}
	names := columnNames(cols)
	if err := renderer.Start(names, q.ColumnHeaders); err != nil {
		return errorResponse(q, 500, err.Error())
	}
	for _, row := range rows {
		if lw.Exceeded() {
			break
		}
		values := make([]interface{}, len(cols))
		for i, c := range cols {
			values[i] = c.ExtractValue(row)
		}
		if err := renderer.WriteRow(values); err != nil {
			return errorResponse(q, 500, err.Error())
		}
	}
	if err := renderer.Finish(); err != nil {
		return errorResponse(q, 500, err.Error())
	}
	return frameResponse(q, buf.String())
}

func renderStats(q *Query, rows []Row, groupCols []Column) string {
	table := NewGroupTable(groupCols, q.Stats)
	for _, row := range rows {
		table.Process(row)
	}
	results := table.Results()

	var names []string
	for _, c := range groupCols {
		names = append(names, c.Name())
	}
	for i, s := range q.Stats {
		names = append(names, s.Header(i))
	}

	var buf bytes.Buffer
	renderer, lw, err := NewRenderer(q.OutputFormat, &buf, defaultMaxResponseBytes, q.Separators)
	if err != nil {
		return errorResponse(q, 400, err.Error())
	}
	if err := renderer.Start(names, q.ColumnHeaders); err != nil {
		return errorResponse(q, 500, err.Error())
	}
	for _, res := range results {
		if lw.Exceeded() {
			break
		}
		row := make([]interface{}, 0, len(res.GroupValues)+len(res.StatValues))
		for _, v := range res.GroupValues {
			row = append(row, v)
		}
		row = append(row, res.StatValues...)
		if err := renderer.WriteRow(row); err != nil {
			return errorResponse(q, 500, err.Error())
		}
	}
	if err := renderer.Finish(); err != nil {
		return errorResponse(q, 500, err.Error())
	}
	return frameResponse(q, buf.String())
}

// frameResponse applies the ResponseHeader: framing: "fixed16" prefixes a
// fixed 16-byte "<status> <bodylen>\n" header; "off" (the default) sends
// the body verbatim.
func frameResponse(q *Query, body string) string {
	if q.ResponseHeader == "fixed16" {
		return fmt.Sprintf("%3d %11d\n", 200, len(body)) + body
	}
	return body
}

func errorResponse(q *Query, code int, msg string) string {
	body := msg + "\n"
	if q.ResponseHeader == "fixed16" {
		return fmt.Sprintf("%3d %11d\n", code, len(body)) + body
	}
	return body
}
