package refschema

import (
	"strconv"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/downtime"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// downtimesTable backs the "downtimes" table over provider.Downtimes.All().
type downtimesTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newDowntimesTable(provider *api.StateProvider) *downtimesTable {
	t := &downtimesTable{provider: provider}
	t.columns = buildDowntimeColumns()
	return t
}

func (t *downtimesTable) Name() string                          { return "downtimes" }
func (t *downtimesTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *downtimesTable) Rows() []livestatus.Row {
	downtimes := t.provider.Downtimes.All()
	rows := make([]livestatus.Row, len(downtimes))
	for i, d := range downtimes {
		rows[i] = d
	}
	return rows
}

func (t *downtimesTable) IsAuthorized(principal string, row livestatus.Row) bool {
	d := row.(*downtime.Downtime)
	if d.Type == objects.HostDowntimeType {
		h := t.provider.Store.GetHost(d.HostName)
		return h != nil && hostHasContact(h, principal)
	}
	svc := findService(t.provider.Store, d.HostName, d.ServiceDescription)
	return svc != nil && serviceHasContact(svc, principal)
}

func (t *downtimesTable) FindObject(spec string) (livestatus.Row, bool) {
	id, err := strconv.ParseUint(spec, 10, 64)
	if err != nil {
		return nil, false
	}
	d := t.provider.Downtimes.Get(id)
	if d == nil {
		return nil, false
	}
	return d, true
}

func buildDowntimeColumns() map[string]livestatus.Column {
	dt := func(r livestatus.Row) *downtime.Downtime { return r.(*downtime.Downtime) }
	return map[string]livestatus.Column{
		"id":                  newColumn("id", "Downtime ID", livestatus.TypeInt64, func(r livestatus.Row) interface{} { return int64(dt(r).DowntimeID) }),
		"author":              newColumn("author", "Name of the author", livestatus.TypeString, func(r livestatus.Row) interface{} { return dt(r).Author }),
		"comment":             newColumn("comment", "Downtime comment text", livestatus.TypeString, func(r livestatus.Row) interface{} { return dt(r).Comment }),
		"entry_time":          newColumn("entry_time", "Time the downtime was scheduled", livestatus.TypeTime, func(r livestatus.Row) interface{} { return dt(r).EntryTime }),
		"start_time":          newColumn("start_time", "Start time of the downtime", livestatus.TypeTime, func(r livestatus.Row) interface{} { return dt(r).StartTime }),
		"end_time":            newColumn("end_time", "End time of the downtime", livestatus.TypeTime, func(r livestatus.Row) interface{} { return dt(r).EndTime }),
		"fixed":               newColumn("fixed", "0 for flexible, 1 for fixed downtime", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(dt(r).Fixed) }),
		"duration":            newColumn("duration", "Duration of a flexible downtime, in seconds", livestatus.TypeInt, func(r livestatus.Row) interface{} { return int(dt(r).Duration.Seconds()) }),
		"is_service":          newColumn("is_service", "0 for host downtimes, 1 for service downtimes", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(dt(r).Type == objects.ServiceDowntimeType) }),
		"triggered_by":        newColumn("triggered_by", "ID of the downtime that triggered this one, 0 if none", livestatus.TypeInt64, func(r livestatus.Row) interface{} { return int64(dt(r).TriggeredBy) }),
		"in_effect":           newColumn("in_effect", "Whether the downtime is currently active", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(dt(r).IsInEffect) }),
		"host_name":           newColumn("host_name", "Host this downtime belongs to", livestatus.TypeString, func(r livestatus.Row) interface{} { return dt(r).HostName }),
		"service_description": newColumn("service_description", "Service this downtime belongs to", livestatus.TypeString, func(r livestatus.Row) interface{} { return dt(r).ServiceDescription }),
	}
}
