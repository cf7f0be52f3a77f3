package catalog

import "errors"

// Domain errors returned by Store implementations. Use errors.Is to test
// for them across backends.
var (
	ErrNotFound     = errors.New("catalog: record not found")
	ErrEmptyKey     = errors.New("catalog: key cannot be empty")
	ErrEmptyLang    = errors.New("catalog: language cannot be empty")
	ErrInvalidKeyID = errors.New("catalog: invalid key id")
)
