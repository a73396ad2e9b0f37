package contact

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrContactNotFound = errors.New("contact not found")
	ErrCompanyNotFound = errors.New("company not found")
)
