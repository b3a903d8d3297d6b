package types

import "errors"

// Sentinel errors for fabric-transform operations.
var (
	// ErrEmptyTargetField indicates a mapping without a target field name.
	ErrEmptyTargetField = errors.New("mapping target field is empty")

	// ErrUnknownKind indicates a mapping with an unrecognized kind.
	ErrUnknownKind = errors.New("unknown mapping kind")

	// ErrNegativeLength indicates a mapping with a negative output length.
	ErrNegativeLength = errors.New("mapping length is negative")

	// ErrEmptyTemplate indicates a template with no mappings.
	ErrEmptyTemplate = errors.New("template has no mappings")

	// ErrTooManyConditions indicates a conditions list exceeds MaxConditions.
	ErrTooManyConditions = errors.New("too many conditions")

	// ErrTooManySources indicates a composite exceeds MaxCompositeSources.
	ErrTooManySources = errors.New("too many composite sources")

	// ErrPredicateTooLong indicates a predicate exceeds MaxPredicateLength.
	ErrPredicateTooLong = errors.New("predicate exceeds maximum length")

	// ErrTooManyInValues indicates an IN list exceeds MaxInValues.
	ErrTooManyInValues = errors.New("too many IN values")

	// ErrTemplateNotFound indicates a template ID with no stored document.
	ErrTemplateNotFound = errors.New("template not found")
)
