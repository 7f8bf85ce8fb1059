package audithook

// Action constants for audit events.
const (
	// Order actions
	ActionOrderCreated       = "order.created"
	ActionOrderStatusChanged = "order.status_changed"
	ActionOrderDeleted       = "order.deleted"

	// Item actions
	ActionItemStatusChanged = "item.status_changed"

	// Settlement actions
	ActionOrderSettled = "order.settled"
)

// Resource constants for audit events.
const (
	ResourceOrder     = "order"
	ResourceOrderItem = "order_item"
	ResourcePayment   = "payment"
)

// Category constants for audit events.
const (
	CategoryOrders  = "orders"
	CategoryKitchen = "kitchen"
	CategoryPayment = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
