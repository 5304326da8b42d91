package livestatus

import (
	"context"
	"time"

	"github.com/ringwatch/gostatus/internal/trigger"
)

// WaitSpec is a parsed WaitCondition:/WaitConditionAnd:/WaitConditionOr:/
// WaitConditionNegate: + WaitTrigger: + WaitObject: + WaitTimeout: group:
// block until the object row satisfies condition, the named trigger fires
// and the condition then holds, or timeout elapses — whichever comes
// first.
type WaitSpec struct {
	Condition *Filter
	Trigger   string // defaults to "all" when WaitTrigger: is absent
	Object    Row
	Timeout   time.Duration // zero means wait indefinitely
}

// Await blocks until spec.Condition accepts spec.Object, a fresh wake on
// spec.Trigger (or the wildcard "all") re-passes the condition, or the
// timeout elapses. It returns true if the condition was satisfied, false
// on timeout. A nil Object is treated as already satisfying any condition
// that never dereferences it (e.g. a query-wide rather than object-scoped
// wait).
func Await(ctx context.Context, reg *trigger.Registry, spec WaitSpec) bool {
	if spec.Condition == nil || spec.Condition.Accepts(spec.Object) {
		return true
	}

	var deadline <-chan time.Time
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	triggerName := spec.Trigger
	if triggerName == "" {
		triggerName = "all"
	}

	for {
		named, all := reg.SubscribeAny(triggerName)
		select {
		case <-named:
		case <-all:
		case <-deadline:
			return false
		case <-ctx.Done():
			return false
		}
		if spec.Condition.Accepts(spec.Object) {
			return true
		}
	}
}
