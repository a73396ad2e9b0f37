package company

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrCompanyNotFound = errors.New("company not found")
)
