package deal

import "time"

type CreateDealRequest struct {
	Title             string     `json:"title" binding:"required"`
	Value             float64    `json:"value"`
	Stage             string     `json:"stage"`
	PipelineID        int64      `json:"pipeline_id" binding:"required"`
	ContactID         *int64     `json:"contact_id"`
	CompanyID         *int64     `json:"company_id"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Description       string     `json:"description"`
}

type UpdateDealRequest struct {
	Title             string     `json:"title"`
	Value             *float64   `json:"value"`
	Stage             *string    `json:"stage"`
	ContactID         *int64     `json:"contact_id"`
	CompanyID         *int64     `json:"company_id"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Description       string     `json:"description"`
}

type MoveDealRequest struct {
	Stage string `json:"stage" binding:"required"`
}
