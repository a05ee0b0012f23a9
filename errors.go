package dspager

import "errors"

var (
	// ErrInvalidArgument reports malformed input, e.g. rows of different shapes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDomain reports a numeric or enumerated input outside its documented bounds.
	ErrDomain = errors.New("domain error")
	// ErrLogic reports a structurally disallowed operation: unknown column,
	// read-only field mutation, unsupported reordering and the like.
	ErrLogic = errors.New("logic error")
	// ErrOutOfRange reports cursor based access outside of the visible rows.
	ErrOutOfRange = errors.New("out of range")
)
