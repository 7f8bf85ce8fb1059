// Package extension provides the Forge extension adapter for Tab.
//
// It implements the forge.Extension interface to integrate Tab
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.tab" or "tab" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	tab "github.com/xraph/tab"
	"github.com/xraph/tab/store"
	"github.com/xraph/tab/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "tab"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Restaurant order lifecycle and settlement engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Tab as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config  Config
	engine  *tab.Tab
	store   store.Store
	tabOpts []tab.Option
}

// New creates a new Tab Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Tab instance.
// This is nil until Register is called.
func (e *Extension) Engine() *tab.Tab { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the tab engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build tab options from resolved config.
	opts := e.buildTabOpts()

	eng := tab.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*tab.Tab, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("tab: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("tab: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildTabOpts constructs tab.Option values from the resolved config.
func (e *Extension) buildTabOpts() []tab.Option {
	opts := make([]tab.Option, 0, len(e.tabOpts)+3)

	if e.config.TaxRateBP > 0 {
		opts = append(opts, tab.WithTaxRate(e.config.TaxRateBP))
	}
	if e.config.Currency != "" {
		opts = append(opts, tab.WithCurrency(e.config.Currency))
	}
	if !e.config.DisableSeed {
		opts = append(opts, tab.WithDemoSeed())
	}

	// Append any pass-through tab options.
	opts = append(opts, e.tabOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("tab: configuration is required but not found in config files; " +
				"ensure 'extensions.tab' or 'tab' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("tab: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("disable_seed", e.config.DisableSeed),
		forge.F("tax_rate_bp", e.config.TaxRateBP),
		forge.F("currency", e.config.Currency),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.tab" first (namespaced pattern).
	if cm.IsSet("extensions.tab") {
		if err := cm.Bind("extensions.tab", &cfg); err == nil {
			e.Logger().Debug("tab: loaded config from file",
				forge.F("key", "extensions.tab"),
			)
			return cfg, true
		}
		e.Logger().Warn("tab: failed to bind extensions.tab config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "tab" key.
	if cm.IsSet("tab") {
		if err := cm.Bind("tab", &cfg); err == nil {
			e.Logger().Debug("tab: loaded config from file",
				forge.F("key", "tab"),
			)
			return cfg, true
		}
		e.Logger().Warn("tab: failed to bind tab config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.TaxRateBP == 0 {
		cfg.TaxRateBP = defaults.TaxRateBP
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.DisableSeed {
		yamlConfig.DisableSeed = true
	}

	// Scalar fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.TaxRateBP == 0 && programmaticConfig.TaxRateBP != 0 {
		yamlConfig.TaxRateBP = programmaticConfig.TaxRateBP
	}
	if yamlConfig.Currency == "" && programmaticConfig.Currency != "" {
		yamlConfig.Currency = programmaticConfig.Currency
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
