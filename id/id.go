// Package id defines prefix-qualified identity types for all Tab entities.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity type. The suffix is a K-sortable TypeID (UUIDv7-based), so IDs are
// globally unique and time-ordered. The wire format is "prefix-suffix",
// e.g. "order-01h2xcejqtf2nbrexx3vqjhp41".
package id

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in an ID.
type Prefix string

// Prefix constants for all Tab entity types.
const (
	PrefixOrder Prefix = "order" // Customer order
	PrefixItem  Prefix = "item"  // Order line item
	PrefixSale  Prefix = "sale"  // Sales ledger entry
)

// ID is the primary identifier type for all Tab entities.
// The zero value is Nil and renders as an empty string.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	prefix Prefix
	suffix string
	valid  bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if suffix generation fails (programming error).
func New(prefix Prefix) ID {
	// An unprefixed TypeID is the bare 26-character suffix.
	tid, err := typeid.Generate("")
	if err != nil {
		panic(fmt.Sprintf("id: generate suffix: %v", err))
	}

	// String() of an unprefixed TypeID is the bare suffix.
	return ID{prefix: prefix, suffix: tid.String(), valid: true}
}

// Parse parses an ID string (e.g., "order-01h2xcejqtf2nbrexx3vqjhp41").
// Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	sep := strings.Index(s, "-")
	if sep <= 0 || sep == len(s)-1 {
		return Nil, fmt.Errorf("id: parse %q: want prefix-suffix", s)
	}

	prefix, suffix := s[:sep], s[sep+1:]
	// A bare suffix parses as an unprefixed TypeID.
	if _, err := typeid.Parse(suffix); err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{prefix: Prefix(prefix), suffix: suffix, valid: true}, nil
}

// ParseWithPrefix parses an ID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// OrderID is a type-safe identifier for orders (prefix: "order").
type OrderID = ID

// ItemID is a type-safe identifier for order items (prefix: "item").
type ItemID = ID

// SaleID is a type-safe identifier for sales ledger entries (prefix: "sale").
type SaleID = ID

// ──────────────────────────────────────────────────
// Convenience constructors and parsers
// ──────────────────────────────────────────────────

// NewOrderID generates a new unique order ID.
func NewOrderID() ID { return New(PrefixOrder) }

// NewItemID generates a new unique order item ID.
func NewItemID() ID { return New(PrefixItem) }

// NewSaleID generates a new unique sale ID.
func NewSaleID() ID { return New(PrefixSale) }

// ParseOrderID parses a string and validates the "order" prefix.
func ParseOrderID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrder) }

// ParseItemID parses a string and validates the "item" prefix.
func ParseItemID(s string) (ID, error) { return ParseWithPrefix(s, PrefixItem) }

// ParseSaleID parses a string and validates the "sale" prefix.
func ParseSaleID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSale) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full string representation (prefix-suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return string(i.prefix) + "-" + i.suffix
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return i.prefix
}

// Suffix returns the unique suffix component of this ID.
func (i ID) Suffix() string {
	if !i.valid {
		return ""
	}

	return i.suffix
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
