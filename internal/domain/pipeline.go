package domain

import "time"

// MaxStagesPerPipeline caps the board size; stage creation past this
// limit is rejected at the service layer.
const MaxStagesPerPipeline = 12

type Pipeline struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Stages []PipelineStage `json:"stages,omitempty" gorm:"foreignKey:PipelineID;constraint:OnDelete:CASCADE"`
}

// PipelineStage is one ordered column of a pipeline board. Position is
// the authoritative ordering key, contiguous from 0 within a pipeline.
type PipelineStage struct {
	ID         int64     `json:"id"`
	PipelineID int64     `json:"pipeline_id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Position   int       `json:"position"`
	Color      string    `json:"color,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
