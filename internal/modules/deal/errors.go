package deal

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrDealNotFound     = errors.New("deal not found")
	ErrPipelineNotFound = errors.New("pipeline not found")
)
