package service

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrBookNotReady    = errors.New("book is still processing")
	ErrModelNotAllowed = errors.New("model is not in the allowed set")
)
