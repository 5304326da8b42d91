package trigger

import (
	"testing"
	"time"
)

func TestSubscribe_FiresOnMatchingName(t *testing.T) {
	r := NewRegistry()
	ch := r.Subscribe("downtime")
	r.Fire("downtime")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("subscriber was not woken by a matching Fire")
	}
}

func TestSubscribe_DoesNotFireOnDifferentName(t *testing.T) {
	r := NewRegistry()
	ch := r.Subscribe("downtime")
	r.Fire("comment")
	select {
	case <-ch:
		t.Fatalf("subscriber should not wake for an unrelated trigger name")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAny_WakesOnNamedFire(t *testing.T) {
	r := NewRegistry()
	named, all := r.SubscribeAny("downtime")
	r.Fire("downtime")
	select {
	case <-named:
	case <-all:
	case <-time.After(time.Second):
		t.Fatalf("expected SubscribeAny to wake on the named trigger")
	}
}

func TestSubscribeAny_WakesOnWildcardFire(t *testing.T) {
	r := NewRegistry()
	named, all := r.SubscribeAny("downtime")
	r.Fire("all")
	select {
	case <-named:
	case <-all:
	case <-time.After(time.Second):
		t.Fatalf("expected SubscribeAny to wake on the wildcard trigger")
	}
}

func TestSubscribeAny_WildcardNameSharesOneChannel(t *testing.T) {
	r := NewRegistry()
	named, all := r.SubscribeAny("all")
	if named != all {
		t.Errorf("subscribing to the wildcard trigger itself should return the same channel twice")
	}
}

func TestFire_UnsubscribedNameIsNoop(t *testing.T) {
	r := NewRegistry()
	// No subscriber registered for "nobody-waiting" — Fire must not panic.
	r.Fire("nobody-waiting")
}

func TestFire_ReplacesChannelSoStaleReferenceStaysClosed(t *testing.T) {
	r := NewRegistry()
	first := r.Subscribe("downtime")
	r.Fire("downtime")
	second := r.Subscribe("downtime")

	select {
	case <-first:
	default:
		t.Errorf("the pre-fire channel reference should already be closed")
	}
	select {
	case <-second:
		t.Errorf("the post-fire channel reference should still be open")
	default:
	}
}
