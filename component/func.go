package component

import (
	"context"
	"sync"
)

// Func adapts a pair of closures into a Component. It is used for
// infrastructure that has start/stop semantics but no natural struct of its
// own, such as the OTLP exporter shutdown hooks.
type Func struct {
	name     string
	start    func(ctx context.Context) error
	stop     func(ctx context.Context) error
	describe *Description

	mu      sync.RWMutex
	started bool
	lastErr error
}

// NewFunc creates a component named name from start and stop closures.
// Either closure may be nil.
func NewFunc(name string, start, stop func(ctx context.Context) error) *Func {
	return &Func{name: name, start: start, stop: stop}
}

// WithDescription attaches startup-summary details to the component.
func (f *Func) WithDescription(d Description) *Func {
	f.describe = &d
	return f
}

func (f *Func) Name() string { return f.name }

func (f *Func) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return nil
	}
	if f.start != nil {
		if err := f.start(ctx); err != nil {
			f.lastErr = err
			return err
		}
	}
	f.started = true
	f.lastErr = nil
	return nil
}

func (f *Func) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return nil
	}
	f.started = false
	if f.stop != nil {
		return f.stop(ctx)
	}
	return nil
}

func (f *Func) Health(context.Context) Health {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.lastErr != nil {
		return Health{Name: f.name, Status: StatusUnhealthy, Message: f.lastErr.Error()}
	}
	if !f.started {
		return Health{Name: f.name, Status: StatusUnhealthy, Message: "not started"}
	}
	return Health{Name: f.name, Status: StatusHealthy}
}

// Describe implements Describable when a description was attached.
func (f *Func) Describe() Description {
	if f.describe != nil {
		return *f.describe
	}
	return Description{Name: f.name}
}
