package extension

import (
	tab "github.com/xraph/tab"
	"github.com/xraph/tab/plugin"
	"github.com/xraph/tab/store"
)

// Option configures the Tab Forge extension.
type Option func(*Extension)

// WithStore sets the store for the tab engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithTabOption passes a tab.Option through to the underlying engine.
func WithTabOption(opt tab.Option) Option {
	return func(e *Extension) {
		e.tabOpts = append(e.tabOpts, opt)
	}
}

// WithPlugin registers a tab plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.tabOpts = append(e.tabOpts, tab.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDisableSeed prevents demo order seeding on start.
func WithDisableSeed() Option {
	return func(e *Extension) { e.config.DisableSeed = true }
}

// WithTaxRate sets the tax rate in basis points.
func WithTaxRate(basisPoints int64) Option {
	return func(e *Extension) { e.config.TaxRateBP = basisPoints }
}

// WithCurrency sets the working currency code.
func WithCurrency(code string) Option {
	return func(e *Extension) { e.config.Currency = code }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
