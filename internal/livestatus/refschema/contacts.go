package refschema

import (
	"strings"
	"time"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// contactsTable backs the "contacts" table over provider.Store.Contacts.
type contactsTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newContactsTable(provider *api.StateProvider) *contactsTable {
	t := &contactsTable{provider: provider}
	t.columns = buildContactColumns()
	return t
}

func (t *contactsTable) Name() string                          { return "contacts" }
func (t *contactsTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *contactsTable) Rows() []livestatus.Row {
	contacts := t.provider.Store.Contacts
	rows := make([]livestatus.Row, len(contacts))
	for i, c := range contacts {
		rows[i] = c
	}
	return rows
}

func (t *contactsTable) IsAuthorized(principal string, row livestatus.Row) bool {
	return row.(*objects.Contact).Name == principal
}

func (t *contactsTable) FindObject(spec string) (livestatus.Row, bool) {
	c := t.provider.Store.GetContact(spec)
	if c == nil {
		return nil, false
	}
	return c, true
}

func buildContactColumns() map[string]livestatus.Column {
	contact := func(r livestatus.Row) *objects.Contact { return r.(*objects.Contact) }
	return map[string]livestatus.Column{
		"name":  newColumn("name", "Contact name", livestatus.TypeString, func(r livestatus.Row) interface{} { return contact(r).Name }),
		"alias": newColumn("alias", "Full name of the contact", livestatus.TypeString, func(r livestatus.Row) interface{} { return contact(r).Alias }),
		"email": newColumn("email", "Email address", livestatus.TypeString, func(r livestatus.Row) interface{} { return contact(r).Email }),
		"pager": newColumn("pager", "Pager address", livestatus.TypeString, func(r livestatus.Row) interface{} { return contact(r).Pager }),
		"host_notifications_enabled":    newColumn("host_notifications_enabled", "Whether host notifications are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(contact(r).HostNotificationsEnabled) }),
		"service_notifications_enabled": newColumn("service_notifications_enabled", "Whether service notifications are enabled", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(contact(r).ServiceNotificationsEnabled) }),
		"can_submit_commands": newColumn("can_submit_commands", "Whether the contact may submit commands", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(contact(r).CanSubmitCommands) }),
		"host_notification_period": newColumn("host_notification_period", "Name of the host notification timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if contact(r).HostNotificationPeriod != nil {
				return contact(r).HostNotificationPeriod.Name
			}
			return ""
		}),
		"service_notification_period": newColumn("service_notification_period", "Name of the service notification timeperiod", livestatus.TypeString, func(r livestatus.Row) interface{} {
			if contact(r).ServiceNotificationPeriod != nil {
				return contact(r).ServiceNotificationPeriod.Name
			}
			return ""
		}),
		"in_host_notification_period": newColumn("in_host_notification_period", "Whether the contact is currently in its host notification period", livestatus.TypeInt, func(r livestatus.Row) interface{} {
			c := contact(r)
			if c.HostNotificationPeriod == nil {
				return 1
			}
			return boolToInt(objects.InTimeperiod(c.HostNotificationPeriod, time.Now()))
		}),
		"groups": newColumn("groups", "Contact group names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(contact(r).ContactGroups))
			for _, cg := range contact(r).ContactGroups {
				names = append(names, cg.Name)
			}
			return names
		}),
		"custom_variable_names": newColumn("custom_variable_names", "Custom variable names", livestatus.TypeList, func(r livestatus.Row) interface{} {
			names := make([]string, 0, len(contact(r).CustomVars))
			for k := range contact(r).CustomVars {
				names = append(names, k)
			}
			return names
		}),
		"custom_variables": newColumn("custom_variables", "Custom variables as name value pairs", livestatus.TypeString, func(r livestatus.Row) interface{} {
			c := contact(r)
			if len(c.CustomVars) == 0 {
				return ""
			}
			parts := make([]string, 0, len(c.CustomVars))
			for k, v := range c.CustomVars {
				parts = append(parts, k+" "+v)
			}
			return strings.Join(parts, "\n")
		}),
	}
}
