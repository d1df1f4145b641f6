// File: lixenwraith/composer/errors.go
package composer

import (
	"errors"
	"fmt"
)

// Error kinds. All errors returned by this package wrap one of these and can
// be matched with errors.Is:
//
//	if errors.Is(err, composer.ErrValidation) {
//	    // rejected value
//	}
var (
	// ErrComposer is the root of every error kind in this package.
	ErrComposer = errors.New("composer")

	// ErrRegistration is returned for invalid declarations: duplicate or
	// reserved names, forward dynamic-default references, more than one
	// composed type in an allowed set, malformed freeze calls.
	ErrRegistration = fmt.Errorf("%w: registration", ErrComposer)

	// ErrValidation is the default kind for rejected values, both declared
	// defaults and runtime assignments.
	ErrValidation = fmt.Errorf("%w: validation", ErrComposer)

	// ErrFrozen is returned by setters on an instance frozen with FreezeRaise.
	ErrFrozen = fmt.Errorf("%w: frozen", ErrComposer)

	// ErrInvalidArgument is returned for malformed operation arguments.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrRegistration)

	// ErrSealed is returned when declaring on a schema that has been finalized.
	ErrSealed = fmt.Errorf("%w: schema is sealed", ErrRegistration)

	// ErrUnknownField is returned when an operation names a field or block
	// operation the schema does not declare.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrComposer)

	// ErrUnsupportedFormat is returned by Import/Export for unknown formats.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrComposer)
)

// kindError tags an error with a caller-selected kind while keeping the
// default kind in the chain, so errors.Is matches both.
type kindError struct {
	kind error
	base error
	msg  string
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.msg
}

func (e *kindError) Unwrap() []error {
	if e.kind == e.base {
		return []error{e.kind}
	}
	return []error{e.kind, e.base}
}

// newKindError builds an error of the given kind, falling back to base when
// kind is nil.
func newKindError(kind, base error, format string, args ...any) error {
	if kind == nil {
		kind = base
	}
	return &kindError{kind: kind, base: base, msg: fmt.Sprintf(format, args...)}
}
