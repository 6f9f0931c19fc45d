package structs

import (
	"errors"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// ErrKind classifies scheduler errors per spec.md §7, so callers (the HTTP
// layer, the CLI) can map them onto the right response without string
// matching.
type ErrKind int

const (
	// ErrKindValidation covers malformed input: negative requirements,
	// missing cluster, missing predecessor, unknown deployment. No retry.
	ErrKindValidation ErrKind = iota
	// ErrKindConflict covers benign no-ops: cancelling a terminal
	// deployment, completing a non-RUNNING deployment.
	ErrKindConflict
	// ErrKindTransient covers store/queue backend unavailability. Safe to
	// retry; the scheduler guarantees no partial mutation was observed.
	ErrKindTransient
	// ErrKindInvariantBreach indicates a programming error: the ledger
	// would go negative or exceed total capacity. Must never happen in a
	// correct build; exists so tests can assert it never fires.
	ErrKindInvariantBreach
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindValidation:
		return "validation"
	case ErrKindConflict:
		return "conflict"
	case ErrKindTransient:
		return "transient"
	case ErrKindInvariantBreach:
		return "invariant_breach"
	default:
		return "unknown"
	}
}

// SchedError is the concrete error type returned across scheduler/, state/,
// and their HTTP translation. It wraps an underlying cause so errors.Is and
// errors.As keep working through the scheduler boundary.
type SchedError struct {
	Kind  ErrKind
	Msg   string
	Cause error
}

func (e *SchedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *SchedError) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, ErrClusterMissing) style sentinel checks against
// the Kind+Msg pair used when the error was constructed without a Cause.
func (e *SchedError) Is(target error) bool {
	other, ok := target.(*SchedError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind && e.Msg == other.Msg
}

func newErr(kind ErrKind, msg string) *SchedError {
	return &SchedError{Kind: kind, Msg: msg}
}

func wrapErr(kind ErrKind, msg string, cause error) *SchedError {
	return &SchedError{Kind: kind, Msg: msg, Cause: cause}
}

// Sentinel validation errors named in spec.md §6's error table.
var (
	ErrClusterMissing      = newErr(ErrKindValidation, "cluster_missing")
	ErrInvalidRequirements = newErr(ErrKindValidation, "invalid_requirements")
	ErrInvalidPredecessor  = newErr(ErrKindValidation, "invalid_predecessor")
	ErrNotFound            = newErr(ErrKindValidation, "not_found")
	ErrNotRunning          = newErr(ErrKindConflict, "not_running")
)

// WrapTransient marks cause as a retryable, store/queue-backend-unreachable
// failure.
func WrapTransient(cause error) *SchedError {
	return wrapErr(ErrKindTransient, "transient store failure", cause)
}

// WrapInvariantBreach builds an InvariantBreach error carrying msg, for a
// detected programming error: a ledger invariant (§3, §7) would be violated
// by the attempted mutation.
func WrapInvariantBreach(msg string) *SchedError {
	return newErr(ErrKindInvariantBreach, msg)
}

// ValidateSubmission checks a would-be Deployment's fields before it enters
// the state machine, aggregating every violation into one multierror rather
// than failing on the first.
func ValidateSubmission(name, image string, req Resources, priority PriorityTier) error {
	var result *multierror.Error

	if name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}
	if image == "" {
		result = multierror.Append(result, errors.New("image is required"))
	}
	if req.Negative() {
		result = multierror.Append(result, errors.New("resource requirements must be non-negative"))
	}
	if !priority.Valid() {
		result = multierror.Append(result, fmt.Errorf("invalid priority tier %d", priority))
	}

	if result.ErrorOrNil() == nil {
		return nil
	}
	return wrapErr(ErrKindValidation, "invalid_requirements", result.ErrorOrNil())
}
