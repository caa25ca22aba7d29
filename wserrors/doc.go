// Package wserrors provides structured error types for the wsdedupe library.
//
// Import path: github.com/erraggy/wsdedupe/wserrors
//
// Errors returned by wsdedupe support [errors.Is] and [errors.As], so callers can
// tell an internal-consistency failure (a defect in an upstream resolution stage)
// apart from a malformed input file or an invalid option.
//
// # Error Types
//
//   - [ConsistencyError]: an invariant of the resolution state does not hold
//   - [ParseError]: a resolution state or lockfile could not be decoded
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrConsistency]: matches any [ConsistencyError]
//   - [ErrMissingDepPath]: a direct edge's node id has no dependency path
//   - [ErrMissingNode]: a dependency path has no node in the graph
//   - [ErrMissingRecord]: a deduplicated alias has no direct dependency record
//   - [ErrParse]: matches any [ParseError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := dedupe.DedupeWithOptions(dedupe.WithStateFile("state.yaml"))
//	if errors.Is(err, wserrors.ErrConsistency) {
//	    // upstream produced an inconsistent graph; do not retry
//	}
//
//	var cErr *wserrors.ConsistencyError
//	if errors.As(err, &cErr) {
//	    fmt.Printf("project %s alias %s: %s\n", cErr.Project, cErr.Alias, cErr.Message)
//	}
//
// None of these errors are transient. The dedupe stage is a deterministic in-memory
// transform, so retrying a failed call returns the same error.
package wserrors
