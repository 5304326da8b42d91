package api

import (
	"github.com/ringwatch/gostatus/internal/downtime"
	"github.com/ringwatch/gostatus/internal/logging"
	"github.com/ringwatch/gostatus/internal/objects"
)

// StateProvider gives the live-status query engine access to all runtime
// state: the object store backing hosts/services/contacts/..., the
// comment/downtime managers, and the ambient logger.
type StateProvider struct {
	Store     *objects.ObjectStore
	Global    *objects.GlobalState
	Comments  *downtime.CommentManager
	Downtimes *downtime.DowntimeManager
	Logger    *logging.Logger
	LogFile   string
}
