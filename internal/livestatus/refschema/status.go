package refschema

import (
	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// statusTable backs the single-row "status" table over provider.Global.
type statusTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newStatusTable(provider *api.StateProvider) *statusTable {
	t := &statusTable{provider: provider}
	t.columns = buildStatusColumns()
	return t
}

func (t *statusTable) Name() string                          { return "status" }
func (t *statusTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *statusTable) Rows() []livestatus.Row {
	return []livestatus.Row{t.provider.Global}
}

// The status table carries no contact-sensitive information; every
// authenticated user sees it.
func (t *statusTable) IsAuthorized(principal string, row livestatus.Row) bool { return true }

func (t *statusTable) FindObject(spec string) (livestatus.Row, bool) {
	return t.provider.Global, true
}

func buildStatusColumns() map[string]livestatus.Column {
	g := func(r livestatus.Row) *objects.GlobalState { return r.(*objects.GlobalState) }
	return map[string]livestatus.Column{
		"program_start":                newColumn("program_start", "Time the monitoring process started", livestatus.TypeTime, func(r livestatus.Row) interface{} { return g(r).ProgramStart }),
		"nagios_pid":                   newColumn("nagios_pid", "Process ID of the monitoring process", livestatus.TypeInt, func(r livestatus.Row) interface{} { return g(r).PID }),
		"enable_notifications":        newColumn("enable_notifications", "Whether notifications are enabled globally", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).EnableNotifications) }),
		"execute_service_checks":      newColumn("execute_service_checks", "Whether active service checks are executed", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).ExecuteServiceChecks) }),
		"execute_host_checks":         newColumn("execute_host_checks", "Whether active host checks are executed", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).ExecuteHostChecks) }),
		"accept_passive_service_checks": newColumn("accept_passive_service_checks", "Whether passive service checks are accepted", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).AcceptPassiveServiceChecks) }),
		"accept_passive_host_checks":  newColumn("accept_passive_host_checks", "Whether passive host checks are accepted", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).AcceptPassiveHostChecks) }),
		"enable_event_handlers":       newColumn("enable_event_handlers", "Whether event handlers are enabled globally", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).EnableEventHandlers) }),
		"enable_flap_detection":       newColumn("enable_flap_detection", "Whether flap detection is enabled globally", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).EnableFlapDetection) }),
		"process_performance_data":    newColumn("process_performance_data", "Whether performance data processing is enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(g(r).ProcessPerformanceData) }),
		"interval_length":             newColumn("interval_length", "Length of a scheduling interval, in seconds", livestatus.TypeInt, func(r livestatus.Row) interface{} { return g(r).IntervalLength }),
	}
}
