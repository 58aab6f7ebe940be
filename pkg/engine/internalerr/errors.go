// Package internalerr collects the error kinds the engine can raise, per
// spec.md §7: GrammarViolation, MalformedRule, InvariantViolation.
package internalerr

import "errors"

// Sentinel errors for errors.Is checks against the three kinds spec.md §7
// names. Each is also wrapped with call-specific detail by the typed
// errors below.
var (
	// ErrGrammarViolation means a grammar plug-in's FromPaths rejected a
	// path-set reconstruction.
	ErrGrammarViolation = errors.New("grammar violation")

	// ErrMalformedRule means a rule's consequences mention a variable not
	// bound by any of its conditions, the rule has zero conditions, or
	// two of its conditions are identical.
	ErrMalformedRule = errors.New("malformed rule")

	// ErrInvariantViolation means an internal consistency check failed
	// (tree hash-table state it should be impossible to reach).
	ErrInvariantViolation = errors.New("invariant violation")
)

// GrammarViolation wraps ErrGrammarViolation with a reason and, when
// there is one, the underlying reconstruction error that triggered it.
type GrammarViolation struct {
	Reason string
	Err    error
}

func (e *GrammarViolation) Error() string {
	if e.Err != nil {
		return "grammar violation: " + e.Reason + ": " + e.Err.Error()
	}
	return "grammar violation: " + e.Reason
}

func (e *GrammarViolation) Unwrap() error { return ErrGrammarViolation }

// MalformedRule wraps ErrMalformedRule with the reason a rule was
// rejected at tell(rule) time.
type MalformedRule struct {
	Reason string
}

func (e *MalformedRule) Error() string {
	return "malformed rule: " + e.Reason
}

func (e *MalformedRule) Unwrap() error { return ErrMalformedRule }

// InvariantViolation wraps ErrInvariantViolation. Should be unreachable;
// its presence in a stack trace means the discrimination tree's hash
// indexing broke an invariant the algorithm assumes.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }
