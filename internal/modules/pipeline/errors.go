package pipeline

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrPipelineNotFound = errors.New("pipeline not found")
	ErrStageNotFound    = errors.New("stage not found")
	ErrStageLimit       = errors.New("pipeline cannot have more than 12 stages")
	ErrStageSetMismatch = errors.New("reorder must include every stage of exactly one pipeline")
)
