package component

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "start:"+m.name)
	}
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "stop:"+m.name)
	}
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) Health { return m.health }

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "database"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&mockComponent{name: "database"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if r.Get("database") == nil || r.Get("missing") != nil {
		t.Error("Get should find registered components only")
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	for _, name := range []string{"database", "telemetry", "http-server"} {
		_ = r.Register(&mockComponent{name: name, events: &events})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start:database", "start:telemetry", "start:http-server",
		"stop:http-server", "stop:telemetry", "stop:database",
	}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestStartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "database", events: &events})
	_ = r.Register(&mockComponent{name: "http-server", events: &events, startErr: errors.New("port in use")})
	_ = r.Register(&mockComponent{name: "never", events: &events})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected StartAll to fail")
	}
	_ = r.StopAll(context.Background())

	want := []string{"start:database", "start:http-server", "stop:database"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	_ = r.Register(&mockComponent{name: "a", stopErr: errA})
	_ = r.Register(&mockComponent{name: "b", stopErr: errB})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestHealthAllAndAggregate(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := Aggregate(results); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}

	results = append(results, Health{Name: "c", Status: StatusUnhealthy})
	if got := Aggregate(results); got != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", got)
	}
	if got := Aggregate(nil); got != StatusHealthy {
		t.Errorf("expected healthy for no components, got %s", got)
	}
}
