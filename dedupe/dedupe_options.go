package dedupe

import (
	"fmt"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/options"
	"github.com/erraggy/wsdedupe/wserrors"
)

// Option is a function that configures a dedupe run
type Option func(*dedupeConfig) error

// dedupeConfig holds configuration for a dedupe run
type dedupeConfig struct {
	// Input sources (exactly one)
	state    *depgraph.State
	filePath *string
	content  []byte

	projects []depgraph.ProjectID

	// nil means use the default from DefaultConfig
	dedupeInjectedDeps      *bool
	injectWorkspacePackages *bool
	concurrency             *int
	policy                  DowngradePolicy
	logger                  Logger
	validate                bool
}

// DedupeWithOptions runs the dedupe stage using functional options.
// Exactly one of WithState, WithStateFile or WithStateContent selects the
// input. The returned Result carries the mutated state.
//
// Example:
//
//	result, err := dedupe.DedupeWithOptions(
//	    dedupe.WithStateFile("state.yaml"),
//	    dedupe.WithProjects("packages/a"),
//	    dedupe.WithInjectWorkspacePackages(true),
//	)
func DedupeWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("dedupe: invalid options: %w", err)
	}

	state, err := loadInput(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.validate {
		if err := state.Validate(); err != nil {
			return nil, fmt.Errorf("dedupe: invalid state: %w", err)
		}
	}

	defaults := DefaultConfig()
	config := Config{
		DedupeInjectedDeps:      boolValueOrDefault(cfg.dedupeInjectedDeps, defaults.DedupeInjectedDeps),
		InjectWorkspacePackages: boolValueOrDefault(cfg.injectWorkspacePackages, defaults.InjectWorkspacePackages),
		Concurrency:             defaults.Concurrency,
		Policy:                  cfg.policy,
		Logger:                  cfg.logger,
	}
	if cfg.concurrency != nil {
		config.Concurrency = *cfg.concurrency
	}

	return New(config).Dedupe(state, cfg.projects...)
}

func loadInput(cfg *dedupeConfig) (*depgraph.State, error) {
	switch {
	case cfg.state != nil:
		return cfg.state, nil
	case cfg.filePath != nil:
		state, err := depgraph.LoadState(*cfg.filePath)
		if err != nil {
			return nil, fmt.Errorf("dedupe: %w", err)
		}
		return state, nil
	default:
		state, err := depgraph.ParseState(cfg.content, "<content>")
		if err != nil {
			return nil, fmt.Errorf("dedupe: %w", err)
		}
		return state, nil
	}
}

func applyOptions(opts ...Option) (*dedupeConfig, error) {
	cfg := &dedupeConfig{validate: true}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.RequireOne(
		options.Source{Name: "WithState", Set: cfg.state != nil},
		options.Source{Name: "WithStateFile", Set: cfg.filePath != nil},
		options.Source{Name: "WithStateContent", Set: cfg.content != nil},
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithState runs the stage on an in-memory state, which is mutated in place.
func WithState(state *depgraph.State) Option {
	return func(cfg *dedupeConfig) error {
		if state == nil {
			return &wserrors.ConfigError{Option: "WithState", Message: "state must not be nil"}
		}
		cfg.state = state
		return nil
	}
}

// WithStateFile loads the state from a YAML or JSON file.
func WithStateFile(path string) Option {
	return func(cfg *dedupeConfig) error {
		if path == "" {
			return &wserrors.ConfigError{Option: "WithStateFile", Message: "path must not be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithStateContent decodes the state from YAML or JSON bytes.
func WithStateContent(data []byte) Option {
	return func(cfg *dedupeConfig) error {
		if len(data) == 0 {
			return &wserrors.ConfigError{Option: "WithStateContent", Message: "content must not be empty"}
		}
		cfg.content = data
		return nil
	}
}

// WithProjects restricts the consuming projects that are scanned.
func WithProjects(ids ...depgraph.ProjectID) Option {
	return func(cfg *dedupeConfig) error {
		cfg.projects = append(cfg.projects, ids...)
		return nil
	}
}

// WithConfig applies every field of config.
func WithConfig(config Config) Option {
	return func(cfg *dedupeConfig) error {
		cfg.dedupeInjectedDeps = &config.DedupeInjectedDeps
		cfg.injectWorkspacePackages = &config.InjectWorkspacePackages
		cfg.concurrency = &config.Concurrency
		cfg.policy = config.Policy
		cfg.logger = config.Logger
		return nil
	}
}

// WithDedupeInjectedDeps enables or disables the stage.
func WithDedupeInjectedDeps(enabled bool) Option {
	return func(cfg *dedupeConfig) error {
		cfg.dedupeInjectedDeps = &enabled
		return nil
	}
}

// WithInjectWorkspacePackages pins every injected edge so it stays materialized.
func WithInjectWorkspacePackages(pin bool) Option {
	return func(cfg *dedupeConfig) error {
		cfg.injectWorkspacePackages = &pin
		return nil
	}
}

// WithConcurrency bounds parallel project evaluation.
func WithConcurrency(n int) Option {
	return func(cfg *dedupeConfig) error {
		if n < 0 {
			return &wserrors.ConfigError{Option: "WithConcurrency", Value: n, Message: "must not be negative"}
		}
		cfg.concurrency = &n
		return nil
	}
}

// WithPolicy installs a custom downgrade policy.
func WithPolicy(policy DowngradePolicy) Option {
	return func(cfg *dedupeConfig) error {
		cfg.policy = policy
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(cfg *dedupeConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithValidation controls whether the whole state is checked for dangling
// edges before the run. It is on by default; the locator still reports
// dangling edges of scanned projects when it is off.
func WithValidation(enabled bool) Option {
	return func(cfg *dedupeConfig) error {
		cfg.validate = enabled
		return nil
	}
}

func boolValueOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
