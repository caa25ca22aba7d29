package wserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConsistency indicates the resolution state violates an invariant.
	ErrConsistency = errors.New("consistency error")

	// ErrMissingDepPath indicates a direct edge whose node id resolves to no dependency path.
	ErrMissingDepPath = errors.New("missing dependency path")

	// ErrMissingNode indicates a dependency path absent from the dependency graph.
	ErrMissingNode = errors.New("missing graph node")

	// ErrMissingRecord indicates a direct dependency record that should exist but does not.
	ErrMissingRecord = errors.New("missing dependency record")

	// ErrParse indicates a decoding failure.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ConsistencyKind identifies which invariant a ConsistencyError reports.
type ConsistencyKind int

const (
	// KindUnknown is an unspecified invariant violation.
	KindUnknown ConsistencyKind = iota
	// KindMissingDepPath is a node id with no dependency path.
	KindMissingDepPath
	// KindMissingNode is a dependency path with no graph node.
	KindMissingNode
	// KindMissingRecord is a deduplicated alias with no direct dependency record.
	KindMissingRecord
)

// String returns a short name for the kind.
func (k ConsistencyKind) String() string {
	switch k {
	case KindMissingDepPath:
		return "missing-dep-path"
	case KindMissingNode:
		return "missing-node"
	case KindMissingRecord:
		return "missing-record"
	default:
		return "unknown"
	}
}

// ConsistencyError reports a violated invariant of the resolution state.
// It always signals a defect in an upstream stage or a concurrent mutation,
// never a condition the dedupe stage should repair.
type ConsistencyError struct {
	// Kind identifies the violated invariant
	Kind ConsistencyKind
	// Project is the workspace project the edge belongs to
	Project string
	// Alias is the dependency alias, if known
	Alias string
	// NodeID is the direct edge's node id, if relevant
	NodeID string
	// DepPath is the dependency path involved, if relevant
	DepPath string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ConsistencyError) Error() string {
	msg := "consistency error"
	if e.Kind != KindUnknown {
		msg += " (" + e.Kind.String() + ")"
	}
	if e.Project != "" {
		msg += " in project " + e.Project
	}
	if e.Alias != "" {
		msg += fmt.Sprintf(" for alias %q", e.Alias)
	}
	if e.NodeID != "" {
		msg += " node " + e.NodeID
	}
	if e.DepPath != "" {
		msg += " at " + e.DepPath
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
// Matches ErrConsistency, and the kind-specific sentinel for e.Kind.
func (e *ConsistencyError) Is(target error) bool {
	switch target {
	case ErrConsistency:
		return true
	case ErrMissingDepPath:
		return e.Kind == KindMissingDepPath
	case ErrMissingNode:
		return e.Kind == KindMissingNode
	case ErrMissingRecord:
		return e.Kind == KindMissingRecord
	}
	return false
}

// ParseError represents a failure to decode a resolution state or lockfile.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
