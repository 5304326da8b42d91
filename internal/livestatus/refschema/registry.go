package refschema

import (
	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/livestatus"
)

// NewRegistry assembles the full table set the query engine serves: hosts,
// services, contacts, comments, downtimes, the single-row status table, and
// the self-describing columns meta-table, all backed by provider.
func NewRegistry(provider *api.StateProvider) livestatus.Registry {
	reg := livestatus.Registry{
		"hosts":     newHostsTable(provider),
		"services":  newServicesTable(provider),
		"contacts":  newContactsTable(provider),
		"comments":  newCommentsTable(provider),
		"downtimes": newDowntimesTable(provider),
		"status":    newStatusTable(provider),
	}
	reg["columns"] = newColumnsTable(reg)
	return reg
}
