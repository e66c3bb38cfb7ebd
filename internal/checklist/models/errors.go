package models

import "errors"

// Rule failures. Template loaders return these at startup; the engine returns
// them per rule when handed templates that bypassed validation.
var (
	ErrUnknownConditionType = errors.New("unknown condition type")
	ErrMalformedRule        = errors.New("malformed rule")
	ErrInvalidOffset        = errors.New("invalid deadline offset")
	ErrMissingReferenceDate = errors.New("missing reference date")
)
