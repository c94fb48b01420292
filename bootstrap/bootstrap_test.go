package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/catalog/component"
	"github.com/kbukum/catalog/config"
	"github.com/kbukum/catalog/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	log      *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.started = true
	if m.log != nil {
		*m.log = append(*m.log, "start "+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	if m.log != nil {
		*m.log = append(*m.log, "stop "+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(context.Context) component.Health {
	if m.health.Name == "" {
		return component.Health{Name: m.name, Status: component.StatusHealthy}
	}
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() component.Description {
	return component.Description{Type: "database", Details: "catalog.db pool=10/5"}
}

func (d *describedComponent) Routes() []component.Route {
	return []component.Route{{Method: "POST", Path: "/auth/login", Handler: "Handler.Login"}}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "test", Version: "1.0"}}
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(io.Discard)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test" || app.Version != "1.0" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Error("expected registry, logger and summary to be set")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got environment %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected 15s default timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(30*time.Second))
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if app.Components.Get("db") == nil {
		t.Error("expected component to be registered")
	}
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Error("expected error for duplicate component registration")
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	hooks := []Hook{
		func(context.Context) error { return fmt.Errorf("fail") },
		func(context.Context) error { secondCalled = true; return nil },
	}
	if err := runHooks(context.Background(), hooks); err == nil {
		t.Error("expected error from failing hook")
	}
	if secondCalled {
		t.Error("expected second hook not to be called after first fails")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{
				name:   "db",
				health: component.Health{Name: "db", Status: tc.status, Message: "slow"},
			})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&mockComponent{name: "database", log: &events})

	app.OnStart(func(context.Context) error { events = append(events, "onStart"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure")
		if a.Cfg.Name != "test" {
			t.Errorf("expected typed config in callback, got %q", a.Cfg.Name)
		}
		return a.RegisterComponent(&mockComponent{name: "http-server", log: &events})
	})
	app.OnReady(func(context.Context) error { events = append(events, "onReady"); return nil })
	app.OnStop(func(context.Context) error { events = append(events, "onStop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := "start database,onStart,configure,start http-server,onReady,task,onStop,stop http-server,stop database"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("unexpected lifecycle\n got: %s\nwant: %s", got, want)
	}
}

func TestRunTask_TaskError(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "database", stopErr: errors.New("close failed")}
	_ = app.RegisterComponent(c)

	taskErr := errors.New("task failed")
	err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("expected the task error to win over the stop error, got %v", err)
	}
	if !c.stopped {
		t.Error("expected component to be stopped")
	}
}

func TestRunTask_StartupFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		want  string
	}{
		{"component", func(app *App[*testConfig]) {
			_ = app.RegisterComponent(&mockComponent{name: "database", startErr: boom})
		}, "initialization failed"},
		{"onStart", func(app *App[*testConfig]) {
			app.OnStart(func(context.Context) error { return boom })
		}, "onStart hook failed"},
		{"configure", func(app *App[*testConfig]) {
			app.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
		}, "configuration failed"},
		{"onReady", func(app *App[*testConfig]) {
			app.OnReady(func(context.Context) error { return boom })
		}, "onReady hook failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			healthy := &mockComponent{name: "telemetry"}
			_ = app.RegisterComponent(healthy)
			tc.setup(app)

			taskRan := false
			err := app.RunTask(context.Background(), func(context.Context) error { taskRan = true; return nil })
			if err == nil || !strings.Contains(err.Error(), tc.want) || !errors.Is(err, boom) {
				t.Fatalf("expected %q wrapping boom, got %v", tc.want, err)
			}
			if taskRan {
				t.Error("task must not run after a failed startup")
			}
			if !healthy.stopped {
				t.Error("components started before the failure must be stopped")
			}
		})
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal on cancellation, got %v", sig)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "database"}
	_ = app.RegisterComponent(c)

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error { cancel(); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !c.started || !c.stopped {
		t.Errorf("expected component started and stopped, got started=%v stopped=%v", c.started, c.stopped)
	}
}

func TestSummaryRender(t *testing.T) {
	registry := component.NewRegistry()
	_ = registry.Register(&describedComponent{mockComponent{name: "database"}})
	_ = registry.Register(&mockComponent{
		name:   "cache",
		health: component.Health{Name: "cache", Status: component.StatusUnhealthy, Message: "timeout"},
	})

	s := NewSummary("catalog", "1.2.3", "production")
	s.SetStartupDuration(1500 * time.Millisecond)
	s.TrackBusinessComponent("AccountService", "service", "AccountStore", "JWT")

	var buf bytes.Buffer
	s.Render(context.Background(), &buf, registry)
	out := buf.String()

	for _, want := range []string{
		"catalog 1.2.3 (production) started in 1.50s",
		"[database] database: catalog.db pool=10/5",
		"[service] AccountService <- AccountStore, JWT",
		"POST    /auth/login -> Handler.Login",
		"cache: unhealthy - timeout",
		"Some components have issues (1/2 healthy)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryRenderNilRegistry(t *testing.T) {
	var buf bytes.Buffer
	NewSummary("catalog", "", "development").Render(context.Background(), &buf, nil)
	if !strings.Contains(buf.String(), "catalog dev (development)") || !strings.Contains(buf.String(), "No components registered") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}
