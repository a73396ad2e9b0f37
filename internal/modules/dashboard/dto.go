package dashboard

import "salescrm/internal/domain"

// StageCount is one bar of the deals-per-stage widget.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type Metrics struct {
	TotalContacts     int64             `json:"total_contacts"`
	TotalCompanies    int64             `json:"total_companies"`
	TotalDeals        int64             `json:"total_deals"`
	OpenPipelineValue float64           `json:"open_pipeline_value"`
	WonValueThisMonth float64           `json:"won_value_this_month"`
	DealsPerStage     []StageCount      `json:"deals_per_stage"`
	RecentActivities  []domain.Activity `json:"recent_activities"`
}
