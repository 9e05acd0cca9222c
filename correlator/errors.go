package correlator

import "errors"

// Sentinel errors surfaced by the correlator, per the error kinds table.
// None of these are fatal to the correlator; callers drop the offending
// event and continue.
var (
	// ErrInvalidArgument is returned for null/empty required inputs or
	// Undefined enum values.
	ErrInvalidArgument = errors.New("correlator: invalid argument")

	// ErrInvalidActorDirection is returned when an actor-type is
	// submitted to the actor map of the wrong direction.
	ErrInvalidActorDirection = errors.New("correlator: actor type does not match map direction")

	// ErrUnsupported is returned for unknown event codes or unmapped
	// actor directions.
	ErrUnsupported = errors.New("correlator: unsupported")

	// ErrBackendUnavailable is returned when the tracing backend
	// refuses to create a span.
	ErrBackendUnavailable = errors.New("correlator: tracing backend unavailable")

	// ErrInvalidState is returned when an operation is attempted on a
	// span that is not in the state required for it (e.g. starting a
	// span twice, or setting a tag after stop).
	ErrInvalidState = errors.New("correlator: invalid span state")
)
