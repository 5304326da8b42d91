package refschema

import (
	"strconv"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/downtime"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/objects"
)

// commentsTable backs the "comments" table over provider.Comments.All().
type commentsTable struct {
	provider *api.StateProvider
	columns  map[string]livestatus.Column
}

func newCommentsTable(provider *api.StateProvider) *commentsTable {
	t := &commentsTable{provider: provider}
	t.columns = buildCommentColumns()
	return t
}

func (t *commentsTable) Name() string                          { return "comments" }
func (t *commentsTable) Columns() map[string]livestatus.Column { return t.columns }

func (t *commentsTable) Rows() []livestatus.Row {
	comments := t.provider.Comments.All()
	rows := make([]livestatus.Row, len(comments))
	for i, c := range comments {
		rows[i] = c
	}
	return rows
}

func (t *commentsTable) IsAuthorized(principal string, row livestatus.Row) bool {
	c := row.(*downtime.Comment)
	if c.CommentType == objects.HostCommentType {
		h := t.provider.Store.GetHost(c.HostName)
		return h != nil && hostHasContact(h, principal)
	}
	svc := findService(t.provider.Store, c.HostName, c.ServiceDescription)
	return svc != nil && serviceHasContact(svc, principal)
}

func (t *commentsTable) FindObject(spec string) (livestatus.Row, bool) {
	id, err := strconv.ParseUint(spec, 10, 64)
	if err != nil {
		return nil, false
	}
	c := t.provider.Comments.Get(id)
	if c == nil {
		return nil, false
	}
	return c, true
}

func buildCommentColumns() map[string]livestatus.Column {
	comment := func(r livestatus.Row) *downtime.Comment { return r.(*downtime.Comment) }
	return map[string]livestatus.Column{
		"id":                  newColumn("id", "Comment ID", livestatus.TypeInt64, func(r livestatus.Row) interface{} { return int64(comment(r).CommentID) }),
		"author":              newColumn("author", "Name of the author", livestatus.TypeString, func(r livestatus.Row) interface{} { return comment(r).Author }),
		"comment":             newColumn("comment", "Comment text", livestatus.TypeString, func(r livestatus.Row) interface{} { return comment(r).Data }),
		"entry_type":          newColumn("entry_type", "Type of entry (0=user, 1=downtime, 2=flapping, 3=acknowledgement)", livestatus.TypeInt, func(r livestatus.Row) interface{} { return comment(r).EntryType }),
		"entry_time":          newColumn("entry_time", "Time the comment was added", livestatus.TypeTime, func(r livestatus.Row) interface{} { return comment(r).EntryTime }),
		"is_service":          newColumn("is_service", "0 for host comments, 1 for service comments", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(comment(r).CommentType == objects.ServiceCommentType) }),
		"persistent":          newColumn("persistent", "Whether the comment survives a restart", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(comment(r).Persistent) }),
		"source":              newColumn("source", "Source of the comment (0=internal, 1=external)", livestatus.TypeInt, func(r livestatus.Row) interface{} { return comment(r).Source }),
		"expires":             newColumn("expires", "Whether the comment expires", livestatus.TypeInt, func(r livestatus.Row) interface{} { return boolToInt(comment(r).Expires) }),
		"expire_time":         newColumn("expire_time", "Time the comment expires", livestatus.TypeTime, func(r livestatus.Row) interface{} { return comment(r).ExpireTime }),
		"host_name":           newColumn("host_name", "Host this comment belongs to", livestatus.TypeString, func(r livestatus.Row) interface{} { return comment(r).HostName }),
		"service_description": newColumn("service_description", "Service this comment belongs to", livestatus.TypeString, func(r livestatus.Row) interface{} { return comment(r).ServiceDescription }),
	}
}
