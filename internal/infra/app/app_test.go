package app

import "testing"

func TestCleanupStackRunsInReverseOrder(t *testing.T) {
	var stack cleanupStack
	var order []string

	stack.add(func() { order = append(order, "tracer") })
	stack.add(func() { order = append(order, "pool") })
	stack.add(func() { order = append(order, "redis") })

	stack.run()

	if len(order) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(order))
	}
	if order[0] != "redis" || order[1] != "pool" || order[2] != "tracer" {
		t.Fatalf("expected reverse order, got %v", order)
	}
}

func TestCleanupStackRunIsIdempotent(t *testing.T) {
	var stack cleanupStack
	calls := 0

	stack.add(func() { calls++ })

	stack.run()
	stack.run()

	if calls != 1 {
		t.Fatalf("expected one invocation, got %d", calls)
	}
}

func TestCleanupStackDiscardSkipsSteps(t *testing.T) {
	var stack cleanupStack
	calls := 0

	stack.add(func() { calls++ })
	stack.discard()
	stack.run()

	if calls != 0 {
		t.Fatalf("expected no invocations after discard, got %d", calls)
	}
}

func TestCleanupStackRunOnEmptyStack(t *testing.T) {
	var stack cleanupStack
	stack.run()
}
