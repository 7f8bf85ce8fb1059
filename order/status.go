package order

import "fmt"

// Status is the shared order- and item-level state vocabulary.
//
// Recommended path:
//
//	new -> inProgress -> ready -> delivered -> paid
//	{new, inProgress, ready, delivered} -> canceled
//
// paid and canceled are terminal. The engine does not reject jumps off
// this path; the documented path is enforced by callers.
type Status string

// Status vocabulary, shared by orders and items.
const (
	StatusNew        Status = "new"
	StatusInProgress Status = "inProgress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
	StatusPaid       Status = "paid"
)

// LegacyStatusCompleted appears in records written by older builds.
// The sales ledger treats it as settled when a payment method is present.
const LegacyStatusCompleted Status = "completed"

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCanceled
}

// IsCompleting reports whether reaching this status stamps the order's
// completion time.
func (s Status) IsCompleting() bool {
	return s == StatusDelivered || s == StatusPaid || s == StatusCanceled
}

// Valid reports whether s is one of the six known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReady, StatusDelivered, StatusCanceled, StatusPaid:
		return true
	default:
		return false
	}
}

// Rollup returns the unanimous status of the items, if there is one.
// Partial agreement never changes order status; full convergence always
// does. An empty item list has no rollup.
func Rollup(items []Item) (Status, bool) {
	if len(items) == 0 {
		return "", false
	}

	first := items[0].Status
	for i := 1; i < len(items); i++ {
		if items[i].Status != first {
			return "", false
		}
	}
	return first, true
}

// displayToStatus is the fixed translation table from the presentation
// vocabulary to the core vocabulary. Both "pending" and "confirmed"
// collapse to StatusNew; the display layer's "completed" maps to paid.
var displayToStatus = map[string]Status{
	"pending":   StatusNew,
	"confirmed": StatusNew,
	"preparing": StatusInProgress,
	"ready":     StatusReady,
	"delivered": StatusDelivered,
	"completed": StatusPaid,
	"cancelled": StatusCanceled,
}

// statusToDisplay is the reverse mapping. new renders as "pending"
// because the display vocabulary has no narrower value for it.
var statusToDisplay = map[Status]string{
	StatusNew:        "pending",
	StatusInProgress: "preparing",
	StatusReady:      "ready",
	StatusDelivered:  "delivered",
	StatusPaid:       "completed",
	StatusCanceled:   "cancelled",
}

// ParseDisplayStatus translates a presentation-layer status value into
// the core vocabulary. Unknown values are an error, not a guess.
func ParseDisplayStatus(s string) (Status, error) {
	if st, ok := displayToStatus[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("order: unknown display status %q", s)
}

// DisplayStatus translates a core status into the presentation-layer
// vocabulary.
func DisplayStatus(s Status) (string, error) {
	if d, ok := statusToDisplay[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("order: unknown status %q", s)
}
