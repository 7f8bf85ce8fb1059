package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onOrderCreated       []OnOrderCreated
	onOrderStatusChanged []OnOrderStatusChanged
	onItemStatusChanged  []OnItemStatusChanged
	onOrderSettled       []OnOrderSettled
	onOrderDeleted       []OnOrderDeleted
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnOrderCreated); ok {
		r.onOrderCreated = append(r.onOrderCreated, v)
	}
	if v, ok := p.(OnOrderStatusChanged); ok {
		r.onOrderStatusChanged = append(r.onOrderStatusChanged, v)
	}
	if v, ok := p.(OnItemStatusChanged); ok {
		r.onItemStatusChanged = append(r.onItemStatusChanged, v)
	}
	if v, ok := p.(OnOrderSettled); ok {
		r.onOrderSettled = append(r.onOrderSettled, v)
	}
	if v, ok := p.(OnOrderDeleted); ok {
		r.onOrderDeleted = append(r.onOrderDeleted, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnOrderCreated)(nil)).Elem(), "OnOrderCreated")
	checkInterface(reflect.TypeOf((*OnOrderStatusChanged)(nil)).Elem(), "OnOrderStatusChanged")
	checkInterface(reflect.TypeOf((*OnItemStatusChanged)(nil)).Elem(), "OnItemStatusChanged")
	checkInterface(reflect.TypeOf((*OnOrderSettled)(nil)).Elem(), "OnOrderSettled")
	checkInterface(reflect.TypeOf((*OnOrderDeleted)(nil)).Elem(), "OnOrderDeleted")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderCreated emits an order created event.
func (r *Registry) EmitOrderCreated(ctx context.Context, o interface{}) {
	r.mu.RLock()
	plugins := r.onOrderCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderCreated(ctx, o)
		}); err != nil {
			r.logger.Warn("plugin OnOrderCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderStatusChanged emits an order status changed event.
func (r *Registry) EmitOrderStatusChanged(ctx context.Context, o interface{}, oldStatus, newStatus string) {
	r.mu.RLock()
	plugins := r.onOrderStatusChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderStatusChanged(ctx, o, oldStatus, newStatus)
		}); err != nil {
			r.logger.Warn("plugin OnOrderStatusChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitItemStatusChanged emits an item status changed event.
func (r *Registry) EmitItemStatusChanged(ctx context.Context, o interface{}, itemID, newStatus string) {
	r.mu.RLock()
	plugins := r.onItemStatusChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnItemStatusChanged(ctx, o, itemID, newStatus)
		}); err != nil {
			r.logger.Warn("plugin OnItemStatusChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderSettled emits an order settled event.
func (r *Registry) EmitOrderSettled(ctx context.Context, o interface{}, method string) {
	r.mu.RLock()
	plugins := r.onOrderSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderSettled(ctx, o, method)
		}); err != nil {
			r.logger.Warn("plugin OnOrderSettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOrderDeleted emits an order deleted event.
func (r *Registry) EmitOrderDeleted(ctx context.Context, orderID string) {
	r.mu.RLock()
	plugins := r.onOrderDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderDeleted(ctx, orderID)
		}); err != nil {
			r.logger.Warn("plugin OnOrderDeleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the order pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
