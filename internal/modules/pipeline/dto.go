package pipeline

type CreatePipelineRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdatePipelineRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateStageRequest struct {
	PipelineID int64  `json:"pipeline_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Color      string `json:"color"`
	IsDefault  bool   `json:"is_default"`
}

type UpdateStageRequest struct {
	Title     string `json:"title"`
	Color     string `json:"color"`
	IsDefault *bool  `json:"is_default"`
}

type StagePosition struct {
	ID       int64 `json:"id" binding:"required"`
	Position int   `json:"position"`
}

// ReorderStagesRequest carries the full ordered stage list of one
// pipeline; partial reorders are not supported.
type ReorderStagesRequest struct {
	Stages []StagePosition `json:"stages" binding:"required,min=1"`
}
