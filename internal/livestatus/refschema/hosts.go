package refschema

import (
	"strconv"
	"strings"
	"time"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// hostsTable backs the "hosts" table over provider.Store.Hosts.
type hostsTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newHostsTable(provider *api.StateProvider) *hostsTable {
	t := &hostsTable{provider: provider}
	t.columns = buildHostColumns(provider)
	return t
}

func (t *hostsTable) Name() string                          { return "hosts" }
func (t *hostsTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *hostsTable) Rows() []livestatus.Row {
	hosts := t.provider.Store.Hosts
	rows := make([]livestatus.Row, len(hosts))
	for i, h := range hosts {
		rows[i] = h
	}
	return rows
}

func (t *hostsTable) IsAuthorized(principal string, row livestatus.Row) bool {
	return hostHasContact(row.(*objects.Host), principal)
}

func (t *hostsTable) FindObject(spec string) (livestatus.Row, bool) {
	h := t.provider.Store.GetHost(spec)
	if h == nil {
		return nil, false
	}
	return h, true
}

func countServicesByState(services []*objects.Service, state int) int {
	count := 0
	for _, svc := range services {
		if svc.HasBeenChecked && svc.CurrentState == state {
			count++
		}
	}
	return count
}

func buildHostColumns(provider *api.StateProvider) map[string]livestatus.Column {
	host := func(r livestatus.Row) *objects.Host { return r.(*objects.Host) }
	cols := map[string]livestatus.Column{
		"name":            newColumn("name", "Host name", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).Name }),
		"display_name":    newColumn("display_name", "Optional display name", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).DisplayName }),
		"alias":           newColumn("alias", "Alias of the host", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).Alias }),
		"address":         newColumn("address", "IP address", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).Address }),
		"state":           newColumn("state", "Current state (0=up,1=down,2=unreachable)", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).CurrentState }),
		"state_type":      newColumn("state_type", "0=soft, 1=hard", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).StateType }),
		"plugin_output":   newColumn("plugin_output", "Output of the last check", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).PluginOutput }),
		"long_plugin_output": newColumn("long_plugin_output", "Additional output", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).LongPluginOutput }),
		"perf_data":       newColumn("perf_data", "Performance data of the last check", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).PerfData }),
		"has_been_checked": newColumn("has_been_checked", "Whether a check has run yet", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).HasBeenChecked) }),
		"current_attempt": newColumn("current_attempt", "Current check attempt", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).CurrentAttempt }),
		"max_check_attempts": newColumn("max_check_attempts", "Max check attempts before hard state", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).MaxCheckAttempts }),
		"last_check":      newColumn("last_check", "Time of last check", livestatus.TypeTime, func(r livestatus.Row) interface{} { return host(r).LastCheck }),
		"next_check":      newColumn("next_check", "Scheduled time of next check", livestatus.TypeTime, func(r livestatus.Row) interface{} { return host(r).NextCheck }),
		"last_state_change": newColumn("last_state_change", "Time of last state change", livestatus.TypeTime, func(r livestatus.Row) interface{} { return host(r).LastStateChange }),
		"last_hard_state_change": newColumn("last_hard_state_change", "Time of last hard state change", livestatus.TypeTime, func(r livestatus.Row) interface{} { return host(r).LastHardStateChange }),
		"last_hard_state": newColumn("last_hard_state", "Last hard state", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).LastHardState }),
		"check_command": newColumn("check_command", "Check command with arguments", livestatus.TypeString, func(r livestatus.Row) interface{} {
			h := host(r)
			if h.CheckCommand == nil {
				return ""
			}
			if h.CheckCommandArgs != "" {
				return h.CheckCommand.Name + "!" + h.CheckCommandArgs
			}
			return h.CheckCommand.Name
		}),
		"check_interval": newColumn("check_interval", "Normal check interval (minutes)", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return host(r).CheckInterval }),
		"retry_interval": newColumn("retry_interval", "Retry check interval (minutes)", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return host(r).RetryInterval }),
		"check_period": newColumn("check_period", "Name of the check timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if host(r).CheckPeriod != nil {
				return host(r).CheckPeriod.Name
			}
			return ""
		}),
		"notification_period": newColumn("notification_period", "Name of the notification timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if host(r).NotificationPeriod != nil {
				return host(r).NotificationPeriod.Name
			}
			return ""
		}),
		"notifications_enabled": newColumn("notifications_enabled", "Whether notifications are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).NotificationsEnabled) }),
		"active_checks_enabled": newColumn("active_checks_enabled", "Whether active checks are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).ActiveChecksEnabled) }),
		"accept_passive_checks": newColumn("accept_passive_checks", "Whether passive checks are accepted", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).PassiveChecksEnabled) }),
		"is_flapping":    newColumn("is_flapping", "Whether the host is flapping", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).IsFlapping) }),
		"percent_state_change": newColumn("percent_state_change", "Flap detection state-change percentage", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return host(r).PercentStateChange }),
		"latency":        newColumn("latency", "Check latency", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return host(r).Latency }),
		"execution_time": newColumn("execution_time", "Check execution time", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return host(r).ExecutionTime }),
		"scheduled_downtime_depth": newColumn("scheduled_downtime_depth", "Number of active downtimes", livestatus.TypeInt, func(r livestatus.Row) interface{} { return host(r).ScheduledDowntimeDepth }),
		"acknowledged": newColumn("acknowledged", "Whether the current problem is acknowledged", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(host(r).ProblemAcknowledged) }),
		"notes":        newColumn("notes", "Free-form notes", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).Notes }),
		"notes_url":    newColumn("notes_url", "URL for additional notes", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).NotesURL }),
		"action_url":   newColumn("action_url", "URL for custom actions", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).ActionURL }),
		"icon_image":   newColumn("icon_image", "Icon image name", livestatus.TypeString, func(r livestatus.Row) interface{} { return host(r).IconImage }),
		"num_services": newColumn("num_services", "Number of services", livestatus.TypeInt, func(r livestatus.Row) interface{} { return len(host(r).Services) }),
		"num_services_ok": newColumn("num_services_ok", "Number of services in OK state", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			return countServicesByState(host(r).Services, objects.ServiceOK)
		}),
		"num_services_warn": newColumn("num_services_warn", "Number of services in WARNING state", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			return countServicesByState(host(r).Services, objects.ServiceWarning)
		}),
		"num_services_crit": newColumn("num_services_crit", "Number of services in CRITICAL state", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			return countServicesByState(host(r).Services, objects.ServiceCritical)
		}),
		"num_services_unknown": newColumn("num_services_unknown", "Number of services in UNKNOWN state", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			return countServicesByState(host(r).Services, objects.ServiceUnknown)
		}),
		"worst_service_state": newColumn("worst_service_state", "Worst state among the host's services", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			worst := 0
			for _, svc := range host(r).Services {
				if svc.CurrentState > worst {
					worst = svc.CurrentState
				}
			}
			return worst
		}),
		"parents": newColumn("parents", "Parent host names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).Parents))
			for _, p := range host(r).Parents {
				names = append(names, p.Name)
			}
			return names
		}),
		"childs": newColumn("childs", "Child host names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).Children))
			for _, c := range host(r).Children {
				names = append(names, c.Name)
			}
			return names
		}),
		"contact_groups": newColumn("contact_groups", "Contact group names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).ContactGroups))
			for _, cg := range host(r).ContactGroups {
				names = append(names, cg.Name)
			}
			return names
		}),
		"contacts": newColumn("contacts", "Contact names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).Contacts))
			for _, c := range host(r).Contacts {
				names = append(names, c.Name)
			}
			return names
		}),
		"groups": newColumn("groups", "Host group names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).HostGroups))
			for _, hg := range host(r).HostGroups {
				names = append(names, hg.Name)
			}
			return names
		}),
		"services": newColumn("services", "Service descriptions on this host", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).Services))
			for _, svc := range host(r).Services {
				names = append(names, svc.Description)
			}
			return names
		}),
		"custom_variable_names": newColumn("custom_variable_names", "Custom variable names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(host(r).CustomVars))
			for k := range host(r).CustomVars {
				names = append(names, k)
			}
			return names
		}),
		"custom_variables": newColumn("custom_variables", "Custom variables as name value pairs", livestatus.TypeString, func(r livestatus.Row) interface{} {
			h := host(r)
			if len(h.CustomVars) == 0 {
				return ""
			}
			parts := make([]string, 0, len(h.CustomVars))
			for k, v := range h.CustomVars {
				parts = append(parts, k+" "+v)
			}
			return strings.Join(parts, "\n")
		}),
		"staleness": newColumn("staleness", "Ratio of time since last check to the expected interval", livestatus.TypeDouble, func(r livestatus.Row) interface{} {
			h := host(r)
			if h.CheckInterval <= 0 || h.LastCheck.IsZero() {
				return 0.0
			}
			age := time.Since(h.LastCheck).Seconds()
			return age / (h.CheckInterval * 60)
		}),
		"comments": newColumn("comments", "IDs of comments on this host", livestatus.TypeList, func(r livestatus.Row) interface{} {
			h := host(r)
			ids := make([]string, 0)
			for _, c := range provider.Comments.ForHost(h.Name) {
				ids = append(ids, strconv.FormatUint(c.CommentID, 10))
			}
			return ids
		}),
		"downtimes": newColumn("downtimes", "IDs of scheduled downtimes for this host", livestatus.TypeList, func(r livestatus.Row) interface{} {
			h := host(r)
			ids := make([]string, 0)
			for _, d := range provider.Downtimes.All() {
				if d.Type == objects.HostDowntimeType && d.HostName == h.Name {
					ids = append(ids, strconv.FormatUint(d.DowntimeID, 10))
				}
			}
			return ids
		}),
	}
	return cols
}
