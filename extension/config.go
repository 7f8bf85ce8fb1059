package extension

// Config holds the Tab extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tab" or "tab" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DisableSeed prevents demo order seeding on start.
	DisableSeed bool `json:"disable_seed" mapstructure:"disable_seed" yaml:"disable_seed"`

	// TaxRateBP is the tax rate applied to order subtotals, in basis
	// points (default: 1000 = 10%).
	TaxRateBP int64 `json:"tax_rate_bp" mapstructure:"tax_rate_bp" yaml:"tax_rate_bp"`

	// Currency is the working currency code (default: "usd").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TaxRateBP: 1000,
		Currency:  "usd",
	}
}
