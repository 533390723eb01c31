package core

import (
	"testing"
	"time"
)

func TestFixedStepPacing(t *testing.T) {
	base := time.Unix(0, 0)
	current := base
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return current }

	if !fs.ShouldStep() {
		t.Fatal("first call should step using the primed accumulator")
	}
	current = current.Add(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("half an interval must not step")
	}
	current = current.Add(50 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("a full interval must step")
	}
}

func TestFixedStepDoesNotBurst(t *testing.T) {
	current := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return current }
	fs.ShouldStep()

	current = current.Add(5 * time.Second)
	steps := 0
	for i := 0; i < 10; i++ {
		if fs.ShouldStep() {
			steps++
		}
	}
	if steps > 2 {
		t.Fatalf("expected at most two catch-up steps, got %d", steps)
	}
}

func TestFixedStepDefaultsTPS(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Interval() != time.Second/60 {
		t.Fatalf("expected 60 tps default, got %v", fs.Interval())
	}
}
