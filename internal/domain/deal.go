package domain

import "time"

// Deal is an opportunity tagged with a stage label. Stage is matched by
// exact string equality against PipelineStage.Title: a label that no
// stage carries leaves the deal out of every board bucket.
type Deal struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title" validate:"required"`
	Value             float64    `json:"value" validate:"gte=0"`
	Stage             string     `json:"stage"`
	PipelineID        int64      `json:"pipeline_id"`
	ContactID         *int64     `json:"contact_id,omitempty"`
	CompanyID         *int64     `json:"company_id,omitempty"`
	OwnerID           int64      `json:"owner_id"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Description       string     `json:"description,omitempty" gorm:"type:text"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Contact *Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

// StageBucket is one column of the by-stage aggregation: the stage, its
// deals in creation order, and the precomputed count and value sum.
type StageBucket struct {
	StageID    int64   `json:"stage_id,omitempty"`
	Title      string  `json:"title"`
	Position   int     `json:"position"`
	Color      string  `json:"color,omitempty"`
	Deals      []Deal  `json:"deals"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}
