package events

import "testing"

func TestPublishDeliversToAll(t *testing.T) {
	bus := NewBus()
	var a, b []Type
	bus.Subscribe(func(e Event) { a = append(a, e.Type) })
	bus.Subscribe(func(e Event) { b = append(b, e.Type) })

	bus.Publish(New(CaseStart, "t1", nil))
	bus.Publish(New(CasePass, "t1", nil))

	for name, got := range map[string][]Type{"first": a, "second": b} {
		if len(got) != 2 || got[0] != CaseStart || got[1] != CasePass {
			t.Errorf("%s handler saw %v, want [%s %s]", name, got, CaseStart, CasePass)
		}
	}
}

func TestSubscribeFilter(t *testing.T) {
	bus := NewBus()
	var seen []Type
	bus.Subscribe(func(e Event) { seen = append(seen, e.Type) }, CaseFail, CaseTimeout)

	bus.Publish(New(CaseStart, "t1", nil))
	bus.Publish(New(CaseFail, "t1", nil))
	bus.Publish(New(CaseTimeout, "t2", nil))
	bus.Publish(New(CasePass, "t3", nil))

	if len(seen) != 2 || seen[0] != CaseFail || seen[1] != CaseTimeout {
		t.Errorf("filtered handler saw %v, want [%s %s]", seen, CaseFail, CaseTimeout)
	}
}

func TestPublishOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(func(Event) { order = append(order, "a") })
	bus.Subscribe(func(Event) { order = append(order, "b") })

	bus.Publish(New(SuiteStart, "", nil))

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("delivery order = %v, want [a b]", order)
	}
}

func TestNewPopulatesEvent(t *testing.T) {
	e := New(CaseFail, "case-7", FailInfo{Errors: 2})
	if e.Type != CaseFail {
		t.Errorf("Type = %s, want %s", e.Type, CaseFail)
	}
	if e.Case != "case-7" {
		t.Errorf("Case = %q, want case-7", e.Case)
	}
	if e.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	info, ok := e.Data.(FailInfo)
	if !ok || info.Errors != 2 {
		t.Errorf("Data = %#v, want FailInfo with two errors", e.Data)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	// Must not panic.
	NewBus().Publish(New(SuiteEnd, "", Tally{Passed: 1, Total: 1}))
}
