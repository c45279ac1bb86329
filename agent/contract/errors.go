package contract

import "errors"

var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("caller does not own the requested resource")
	ErrUnknownTool  = errors.New("unknown tool")
	ErrNotFound     = errors.New("resource not found")
)
