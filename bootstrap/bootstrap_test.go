package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/skillsenselab/ecgflow/component"
	"github.com/skillsenselab/ecgflow/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Output = "stderr"
	return &cfg
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testConfig())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name == "" {
		t.Error("app has no name")
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Error("app is missing registry, logger, or summary")
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "parallel-universe"

	if _, err := NewApp(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunTaskLifecycle(t *testing.T) {
	app, err := NewApp(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	comp := component.NewFunc("telemetry",
		func(ctx context.Context) error { order = append(order, "comp-start"); return nil },
		func(ctx context.Context) error { order = append(order, "comp-stop"); return nil },
	)
	if err := app.RegisterComponent(comp); err != nil {
		t.Fatal(err)
	}
	app.OnStart(func(ctx context.Context) error { order = append(order, "on-start"); return nil })
	app.OnReady(func(ctx context.Context) error { order = append(order, "on-ready"); return nil })
	app.OnStop(func(ctx context.Context) error { order = append(order, "on-stop"); return nil })

	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{"comp-start", "on-start", "on-ready", "task", "on-stop", "comp-stop"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunTaskPropagatesTaskError(t *testing.T) {
	app, err := NewApp(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	taskErr := fmt.Errorf("signal file unreadable")
	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		return taskErr
	})
	if err != taskErr {
		t.Fatalf("err = %v, want %v", err, taskErr)
	}
}

func TestRunTaskFailsWhenComponentFails(t *testing.T) {
	app, err := NewApp(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	app.RegisterComponent(component.NewFunc("telemetry",
		func(ctx context.Context) error { return fmt.Errorf("collector unreachable") },
		nil,
	))

	ran := false
	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected startup error")
	}
	if ran {
		t.Error("task ran despite failed startup")
	}
}

func TestReadyCheck(t *testing.T) {
	app, err := NewApp(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	healthy := component.NewFunc("telemetry", nil, nil)
	healthy.Start(context.Background())
	app.RegisterComponent(healthy)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("ReadyCheck = %v, want nil", err)
	}

	app.RegisterComponent(component.NewFunc("http-server", nil, nil)) // never started
	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected unhealthy report for unstarted component")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, err := NewApp(testConfig(), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("gracefulTimeout = %v, want 1s", app.gracefulTimeout)
	}
}
