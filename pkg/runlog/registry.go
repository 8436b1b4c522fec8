package runlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rigtest/rigtest-go/pkg/redact"
)

// Namespace is the well-known top-level logger scope of the rig.
const Namespace = "rig"

// ScopeForCell returns the logger scope name for a rig cell.
func ScopeForCell(cell int) string {
	return fmt.Sprintf("%s.cells.%d", Namespace, cell)
}

// Registry owns the binding between logger scopes and their sinks. It is the
// explicit replacement for an ambient process-wide logger hierarchy: sinks
// are attached and detached through first-class operations with clear
// ownership, and redaction is applied in dispatch before any sink or base
// handler observes a record. There is no code path around it.
//
// A Registry has an optional base handler (console output etc.) that
// receives records from every scope, plus per-scope sink lists.
type Registry struct {
	mu     sync.RWMutex
	base   slog.Handler
	scopes map[string][]slog.Handler
}

// NewRegistry creates a registry. base may be nil if records should only
// reach attached sinks.
func NewRegistry(base slog.Handler) *Registry {
	return &Registry{
		base:   base,
		scopes: make(map[string][]slog.Handler),
	}
}

// Attach registers h as a sink for the given scope.
func (g *Registry) Attach(scope string, h slog.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scopes[scope] = append(g.scopes[scope], h)
}

// Detach removes h from the given scope. Detaching a handler that is not
// attached is a no-op. After Detach returns, h receives no further records.
func (g *Registry) Detach(scope string, h slog.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sinks := g.scopes[scope]
	for i, s := range sinks {
		if s == h {
			g.scopes[scope] = append(append([]slog.Handler(nil), sinks[:i]...), sinks[i+1:]...)
			break
		}
	}
	if len(g.scopes[scope]) == 0 {
		delete(g.scopes, scope)
	}
}

// Handler returns the dispatch handler for a scope. Records flowing through
// it are redacted exactly once, then fanned out to the base handler and the
// scope's attached sinks.
func (g *Registry) Handler(scope string) slog.Handler {
	return redact.NewHandler(&dispatchHandler{reg: g, scope: scope})
}

func (g *Registry) snapshot(scope string) (slog.Handler, []slog.Handler) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	sinks := make([]slog.Handler, len(g.scopes[scope]))
	copy(sinks, g.scopes[scope])
	return g.base, sinks
}

// dispatchHandler fans one scope's records out to the registry's base
// handler and attached sinks. Pre-bound attributes are replayed onto each
// record before fan-out.
type dispatchHandler struct {
	reg   *Registry
	scope string
	attrs []slog.Attr
}

// Enabled reports true: sinks capture every level, and the base handler
// applies its own threshold in Handle.
func (d *dispatchHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (d *dispatchHandler) Handle(ctx context.Context, r slog.Record) error {
	out := r
	if len(d.attrs) > 0 {
		out = slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
		out.AddAttrs(d.attrs...)
		r.Attrs(func(a slog.Attr) bool {
			out.AddAttrs(a)
			return true
		})
	}

	base, sinks := d.reg.snapshot(d.scope)

	var errs []error
	if base != nil && base.Enabled(ctx, out.Level) {
		errs = append(errs, base.Handle(ctx, out.Clone()))
	}
	for _, s := range sinks {
		errs = append(errs, s.Handle(ctx, out.Clone()))
	}
	return errors.Join(errs...)
}

func (d *dispatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	d2 := *d
	d2.attrs = append(append([]slog.Attr(nil), d.attrs...), attrs...)
	return &d2
}

// WithGroup is accepted but not reflected in captured entries; the run
// record's fields are flat.
func (d *dispatchHandler) WithGroup(string) slog.Handler {
	return d
}

var (
	installOnce     sync.Once
	installedShared *Registry
)

// Install creates the process-wide shared registry exactly once and routes
// the default slog logger through it, so even log lines emitted before any
// per-context logger exists are redacted. Subsequent calls ignore base and
// return the already-installed registry. Safe to call from multiple
// goroutines.
func Install(base slog.Handler) *Registry {
	installOnce.Do(func() {
		installedShared = NewRegistry(base)
		slog.SetDefault(slog.New(installedShared.Handler(Namespace)))
	})
	return installedShared
}
