package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("a product with this name already exists")
	ErrStorage       = errors.New("storage failure")
	ErrValidation    = errors.New("validation failed")
)
