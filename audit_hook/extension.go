// Package audithook bridges Tab lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// any particular audit system directly. Callers inject a RecorderFunc
// adapter that bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tab/order"
	"github.com/xraph/tab/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnOrderCreated       = (*Extension)(nil)
	_ plugin.OnOrderStatusChanged = (*Extension)(nil)
	_ plugin.OnItemStatusChanged  = (*Extension)(nil)
	_ plugin.OnOrderSettled       = (*Extension)(nil)
	_ plugin.OnOrderDeleted       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so this package carries no backend dependency;
// callers inject the concrete recorder at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Tab lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderCreated implements plugin.OnOrderCreated.
func (e *Extension) OnOrderCreated(ctx context.Context, o interface{}) error {
	orderID, number := orderIdentity(o)
	return e.record(ctx, ActionOrderCreated, SeverityInfo, OutcomeSuccess,
		ResourceOrder, orderID, CategoryOrders, nil,
		"event", "order_created",
		"number", number,
	)
}

// OnOrderStatusChanged implements plugin.OnOrderStatusChanged.
func (e *Extension) OnOrderStatusChanged(ctx context.Context, o interface{}, oldStatus, newStatus string) error {
	orderID, _ := orderIdentity(o)
	return e.record(ctx, ActionOrderStatusChanged, SeverityInfo, OutcomeSuccess,
		ResourceOrder, orderID, CategoryKitchen, nil,
		"event", "order_status_changed",
		"old_status", oldStatus,
		"new_status", newStatus,
	)
}

// OnItemStatusChanged implements plugin.OnItemStatusChanged.
func (e *Extension) OnItemStatusChanged(ctx context.Context, o interface{}, itemID, newStatus string) error {
	orderID, _ := orderIdentity(o)
	return e.record(ctx, ActionItemStatusChanged, SeverityInfo, OutcomeSuccess,
		ResourceOrderItem, itemID, CategoryKitchen, nil,
		"event", "item_status_changed",
		"order_id", orderID,
		"new_status", newStatus,
	)
}

// OnOrderSettled implements plugin.OnOrderSettled.
func (e *Extension) OnOrderSettled(ctx context.Context, o interface{}, method string) error {
	orderID, number := orderIdentity(o)
	kv := []any{
		"event", "order_settled",
		"number", number,
		"method", method,
	}
	if ord, ok := o.(*order.Order); ok {
		kv = append(kv, "total_cents", ord.Total.Amount, "currency", ord.Total.Currency)
	}
	return e.record(ctx, ActionOrderSettled, SeverityInfo, OutcomeSuccess,
		ResourcePayment, orderID, CategoryPayment, nil, kv...)
}

// OnOrderDeleted implements plugin.OnOrderDeleted.
func (e *Extension) OnOrderDeleted(ctx context.Context, orderID string) error {
	return e.record(ctx, ActionOrderDeleted, SeverityWarning, OutcomeSuccess,
		ResourceOrder, orderID, CategoryOrders, nil,
		"event", "order_deleted",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// orderIdentity pulls the ID and number out of a hook payload when it
// carries a full order.
func orderIdentity(o interface{}) (orderID, number string) {
	if ord, ok := o.(*order.Order); ok {
		return ord.ID.String(), ord.Number
	}
	return "", ""
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
