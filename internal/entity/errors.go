package entity

import "errors"

var (
	// Calculation errors
	ErrDivisionByZero = errors.New("division by zero: target height is 0")
	ErrInvalidInput   = errors.New("invalid input")

	// Node errors
	ErrNodeNotFound          = errors.New("node not found")
	ErrNodeAlreadyRegistered = errors.New("node already registered")

	// Storage errors
	ErrInvocationNotFound = errors.New("invocation not found")
	ErrCacheMiss          = errors.New("cache miss")

	// Image errors
	ErrUnsupportedImage = errors.New("unsupported image format")
)
