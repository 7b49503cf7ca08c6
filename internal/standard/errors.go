package standard

import "errors"

// Standard validation errors. Load and Validate wrap these with context, so
// callers should match them with errors.Is.
var (
	// ErrEmptyOrder is returned when a standard has no canonical order.
	ErrEmptyOrder = errors.New("standard has an empty canonical order")

	// ErrDuplicateCategory is returned when a category appears twice in the order.
	ErrDuplicateCategory = errors.New("category listed more than once in canonical order")

	// ErrUnknownCategory is returned when the order names a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoRules is returned when a standard has no classification rules.
	ErrNoRules = errors.New("standard has no classification rules")

	// ErrInvalidRule is returned for rules with an empty category or pattern,
	// or a pattern that does not compile.
	ErrInvalidRule = errors.New("invalid classification rule")

	// ErrUnsupportedFormat is returned when a standard file extension is not
	// one of .yaml, .yml, .toml, .json or .jsonc.
	ErrUnsupportedFormat = errors.New("unsupported standard file format")
)
