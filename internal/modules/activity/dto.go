package activity

import "time"

type CreateActivityRequest struct {
	Type      string     `json:"type" binding:"required,oneof=call email meeting note"`
	Title     string     `json:"title" binding:"required"`
	Notes     string     `json:"notes"`
	ContactID *int64     `json:"contact_id"`
	DealID    *int64     `json:"deal_id"`
	DueAt     *time.Time `json:"due_at"`
}

type UpdateActivityRequest struct {
	Title string     `json:"title"`
	Notes *string    `json:"notes"`
	DueAt *time.Time `json:"due_at"`
	Done  *bool      `json:"done"`
}
