package refschema

import (
	"strconv"
	"strings"
	"time"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// servicesTable backs the "services" table over provider.Store.Services.
type servicesTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newServicesTable(provider *api.StateProvider) *servicesTable {
	t := &servicesTable{provider: provider}
	t.columns = buildServiceColumns(provider)
	return t
}

func (t *servicesTable) Name() string                          { return "services" }
func (t *servicesTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *servicesTable) Rows() []livestatus.Row {
	services := t.provider.Store.Services
	rows := make([]livestatus.Row, len(services))
	for i, svc := range services {
		rows[i] = svc
	}
	return rows
}

func (t *servicesTable) IsAuthorized(principal string, row livestatus.Row) bool {
	return serviceHasContact(row.(*objects.Service), principal)
}

func (t *servicesTable) FindObject(spec string) (livestatus.Row, bool) {
	hostName, desc, ok := strings.Cut(spec, ";")
	if !ok {
		return nil, false
	}
	svc := findService(t.provider.Store, hostName, desc)
	if svc == nil {
		return nil, false
	}
	return svc, true
}

func buildServiceColumns(provider *api.StateProvider) map[string]livestatus.Column {
	svc := func(r livestatus.Row) *objects.Service { return r.(*objects.Service) }
	return map[string]livestatus.Column{
		"host_name": newColumn("host_name", "Name of the host this service belongs to", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if svc(r).Host != nil {
				return svc(r).Host.Name
			}
			return ""
		}),
		"description":     newColumn("description", "Service description", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).Description }),
		"display_name":    newColumn("display_name", "Optional display name", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).DisplayName }),
		"state":           newColumn("state", "Current state (0=ok,1=warn,2=crit,3=unknown)", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).CurrentState }),
		"state_type":      newColumn("state_type", "0=soft, 1=hard", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).StateType }),
		"plugin_output":   newColumn("plugin_output", "Output of the last check", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).PluginOutput }),
		"long_plugin_output": newColumn("long_plugin_output", "Additional output", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).LongPluginOutput }),
		"perf_data":       newColumn("perf_data", "Performance data of the last check", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).PerfData }),
		"has_been_checked": newColumn("has_been_checked", "Whether a check has run yet", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).HasBeenChecked) }),
		"current_attempt": newColumn("current_attempt", "Current check attempt", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).CurrentAttempt }),
		"max_check_attempts": newColumn("max_check_attempts", "Max check attempts before hard state", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).MaxCheckAttempts }),
		"last_check":      newColumn("last_check", "Time of last check", livestatus.TypeTime, func(r livestatus.Row) interface{} { return svc(r).LastCheck }),
		"next_check":      newColumn("next_check", "Scheduled time of next check", livestatus.TypeTime, func(r livestatus.Row) interface{} { return svc(r).NextCheck }),
		"last_state_change": newColumn("last_state_change", "Time of last state change", livestatus.TypeTime, func(r livestatus.Row) interface{} { return svc(r).LastStateChange }),
		"last_hard_state_change": newColumn("last_hard_state_change", "Time of last hard state change", livestatus.TypeTime, func(r livestatus.Row) interface{} { return svc(r).LastHardStateChange }),
		"last_hard_state": newColumn("last_hard_state", "Last hard state", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).LastHardState }),
		"check_command": newColumn("check_command", "Check command with arguments", livestatus.TypeString, func(r livestatus.Row) interface{} {
			s := svc(r)
			if s.CheckCommand == nil {
				return ""
			}
			if s.CheckCommandArgs != "" {
				return s.CheckCommand.Name + "!" + s.CheckCommandArgs
			}
			return s.CheckCommand.Name
		}),
		"check_interval": newColumn("check_interval", "Normal check interval (minutes)", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return svc(r).CheckInterval }),
		"retry_interval": newColumn("retry_interval", "Retry check interval (minutes)", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return svc(r).RetryInterval }),
		"check_period": newColumn("check_period", "Name of the check timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if svc(r).CheckPeriod != nil {
				return svc(r).CheckPeriod.Name
			}
			return ""
		}),
		"notification_period": newColumn("notification_period", "Name of the notification timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if svc(r).NotificationPeriod != nil {
				return svc(r).NotificationPeriod.Name
			}
			return ""
		}),
		"notifications_enabled": newColumn("notifications_enabled", "Whether notifications are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).NotificationsEnabled) }),
		"active_checks_enabled": newColumn("active_checks_enabled", "Whether active checks are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).ActiveChecksEnabled) }),
		"accept_passive_checks": newColumn("accept_passive_checks", "Whether passive checks are accepted", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).PassiveChecksEnabled) }),
		"is_flapping":    newColumn("is_flapping", "Whether the service is flapping", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).IsFlapping) }),
		"percent_state_change": newColumn("percent_state_change", "Flap detection state-change percentage", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return svc(r).PercentStateChange }),
		"latency":        newColumn("latency", "Check latency", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return svc(r).Latency }),
		"execution_time": newColumn("execution_time", "Check execution time", livestatus.TypeDouble, func(r livestatus.Row) interface{} { return svc(r).ExecutionTime }),
		"scheduled_downtime_depth": newColumn("scheduled_downtime_depth", "Number of active downtimes", livestatus.TypeInt, func(r livestatus.Row) interface{} { return svc(r).ScheduledDowntimeDepth }),
		"acknowledged": newColumn("acknowledged", "Whether the current problem is acknowledged", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).ProblemAcknowledged) }),
		"notes":        newColumn("notes", "Free-form notes", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).Notes }),
		"notes_url":    newColumn("notes_url", "URL for additional notes", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).NotesURL }),
		"action_url":   newColumn("action_url", "URL for custom actions", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).ActionURL }),
		"icon_image":   newColumn("icon_image", "Icon image name", livestatus.TypeString, func(r livestatus.Row) interface{} { return svc(r).IconImage }),
		"is_volatile":  newColumn("is_volatile", "Whether the service is volatile", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(svc(r).IsVolatile) }),
		"contact_groups": newColumn("contact_groups", "Contact group names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(svc(r).ContactGroups))
			for _, cg := range svc(r).ContactGroups {
				names = append(names, cg.Name)
			}
			return names
		}),
		"contacts": newColumn("contacts", "Contact names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(svc(r).Contacts))
			for _, c := range svc(r).Contacts {
				names = append(names, c.Name)
			}
			return names
		}),
		"groups": newColumn("groups", "Service group names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(svc(r).ServiceGroups))
			for _, sg := range svc(r).ServiceGroups {
				names = append(names, sg.Name)
			}
			return names
		}),
		"custom_variable_names": newColumn("custom_variable_names", "Custom variable names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(svc(r).CustomVars))
			for k := range svc(r).CustomVars {
				names = append(names, k)
			}
			return names
		}),
		"custom_variables": newColumn("custom_variables", "Custom variables as name value pairs", livestatus.TypeString, func(r livestatus.Row) interface{} {
			s := svc(r)
			if len(s.CustomVars) == 0 {
				return ""
			}
			parts := make([]string, 0, len(s.CustomVars))
			for k, v := range s.CustomVars {
				parts = append(parts, k+" "+v)
			}
			return strings.Join(parts, "\n")
		}),
		"staleness": newColumn("staleness", "Ratio of time since last check to the expected interval", livestatus.TypeDouble, func(r livestatus.Row) interface{} {
			s := svc(r)
			if s.CheckInterval <= 0 || s.LastCheck.IsZero() {
				return 0.0
			}
			age := time.Since(s.LastCheck).Seconds()
			return age / (s.CheckInterval * 60)
		}),
		"comments": newColumn("comments", "IDs of comments on this service", livestatus.TypeList, func(r livestatus.Row) interface{} {
			s := svc(r)
			if s.Host == nil {
				return []string{}
			}
			ids := make([]string, 0)
			for _, c := range provider.Comments.ForService(s.Host.Name, s.Description) {
				ids = append(ids, strconv.FormatUint(c.CommentID, 10))
			}
			return ids
		}),
		"downtimes": newColumn("downtimes", "IDs of scheduled downtimes for this service", livestatus.TypeList, func(r livestatus.Row) interface{} {
			s := svc(r)
			if s.Host == nil {
				return []string{}
			}
			ids := make([]string, 0)
			for _, d := range provider.Downtimes.All() {
				if d.Type == objects.ServiceDowntimeType && d.HostName == s.Host.Name && d.ServiceDescription == s.Description {
					ids = append(ids, strconv.FormatUint(d.DowntimeID, 10))
				}
			}
			return ids
		}),
	}
}
