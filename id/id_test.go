package id

import (
	"encoding/json"
	"testing"
)

func TestNewGeneratesValidIDs(t *testing.T) {
	tests := []struct {
		name   string
		id     ID
		prefix Prefix
	}{
		{"order", NewOrderID(), PrefixOrder},
		{"item", NewItemID(), PrefixItem},
		{"sale", NewSaleID(), PrefixSale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.id.IsNil() {
				t.Fatal("new ID should not be nil")
			}
			if tt.id.Prefix() != tt.prefix {
				t.Errorf("Prefix: got %q, want %q", tt.id.Prefix(), tt.prefix)
			}
			if tt.id.Suffix() == "" {
				t.Error("Suffix should not be empty")
			}

			// Wire format is "prefix-suffix".
			want := string(tt.prefix) + "-" + tt.id.Suffix()
			if tt.id.String() != want {
				t.Errorf("String: got %q, want %q", tt.id.String(), want)
			}
		})
	}
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewOrderID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := NewOrderID()

	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.String() != original.String() {
		t.Errorf("Round trip: got %q, want %q", parsed.String(), original.String())
	}
	if parsed.Prefix() != PrefixOrder {
		t.Errorf("Prefix: got %q, want %q", parsed.Prefix(), PrefixOrder)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no separator", "order01h2xcejqt"},
		{"empty prefix", "-01h2xcejqt"},
		{"empty suffix", "order-"},
		{"bad suffix", "order-not!a!typeid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) should fail", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	orderID := NewOrderID()

	if _, err := ParseOrderID(orderID.String()); err != nil {
		t.Errorf("ParseOrderID on order ID: %v", err)
	}
	if _, err := ParseItemID(orderID.String()); err == nil {
		t.Error("ParseItemID on order ID should fail")
	}
}

func TestNilID(t *testing.T) {
	var nilID ID

	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID String: got %q, want empty", nilID.String())
	}
	if nilID.Prefix() != "" {
		t.Errorf("nil ID Prefix: got %q, want empty", nilID.Prefix())
	}
}

func TestIDJSONRoundTrip(t *testing.T) {
	original := NewItemID()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.String() != original.String() {
		t.Errorf("Round trip: got %q, want %q", decoded.String(), original.String())
	}
}

func TestIDValueAndScan(t *testing.T) {
	original := NewOrderID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("Value/Scan round trip: got %q, want %q", scanned.String(), original.String())
	}

	// NULL scans to Nil.
	var fromNull ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("scanning NULL should produce the nil ID")
	}
}
