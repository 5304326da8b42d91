package livestatus

import (
	"context"
	"testing"
	"time"

	"github.com/ringwatch/gostatus/internal/trigger"
)

func TestAwait_ConditionAlreadySatisfied(t *testing.T) {
	reg := trigger.NewRegistry()
	spec := WaitSpec{Condition: leaf("state", OpEqual, "up"), Object: stubRow{"state": "up"}}
	if !Await(context.Background(), reg, spec) {
		t.Errorf("expected Await to return immediately when the condition already holds")
	}
}

func TestAwait_NilConditionAlwaysSatisfied(t *testing.T) {
	reg := trigger.NewRegistry()
	spec := WaitSpec{Object: stubRow{"state": "down"}}
	if !Await(context.Background(), reg, spec) {
		t.Errorf("a nil wait condition should be treated as already satisfied")
	}
}

func TestAwait_WakesOnTriggerAndRechecks(t *testing.T) {
	reg := trigger.NewRegistry()
	row := stubRow{"state": "down"}
	spec := WaitSpec{Condition: leaf("state", OpEqual, "up"), Trigger: "check", Object: row, Timeout: time.Second}

	done := make(chan bool, 1)
	go func() {
		done <- Await(context.Background(), reg, spec)
	}()

	time.Sleep(20 * time.Millisecond)
	row["state"] = "up"
	reg.Fire("check")

	select {
	case ok := <-done:
		if !ok {
			t.Errorf("expected Await to report success once the condition is re-satisfied")
		}
	case <-time.After(time.Second):
		t.Fatalf("Await did not return after its trigger fired")
	}
}

func TestAwait_TimesOutWithoutTrigger(t *testing.T) {
	reg := trigger.NewRegistry()
	spec := WaitSpec{Condition: leaf("state", OpEqual, "up"), Object: stubRow{"state": "down"}, Timeout: 30 * time.Millisecond}
	if Await(context.Background(), reg, spec) {
		t.Errorf("expected Await to time out and report false when the condition never holds")
	}
}

func TestAwait_CancelledContextReturnsFalse(t *testing.T) {
	reg := trigger.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spec := WaitSpec{Condition: leaf("state", OpEqual, "up"), Object: stubRow{"state": "down"}}
	if Await(ctx, reg, spec) {
		t.Errorf("expected Await to return false immediately for an already-cancelled context")
	}
}

func TestAwait_DefaultsTriggerNameToAll(t *testing.T) {
	reg := trigger.NewRegistry()
	row := stubRow{"state": "down"}
	spec := WaitSpec{Condition: leaf("state", OpEqual, "up"), Object: row, Timeout: time.Second}

	done := make(chan bool, 1)
	go func() {
		done <- Await(context.Background(), reg, spec)
	}()

	time.Sleep(20 * time.Millisecond)
	row["state"] = "up"
	reg.Fire("all")

	select {
	case ok := <-done:
		if !ok {
			t.Errorf("expected the empty WaitTrigger name to default to the \"all\" wildcard")
		}
	case <-time.After(time.Second):
		t.Fatalf("Await did not return after firing the wildcard trigger")
	}
}
