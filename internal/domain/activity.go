package domain

import "time"

type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityEmail        ActivityType = "email"
	ActivityMeeting      ActivityType = "meeting"
	ActivityNote         ActivityType = "note"
	ActivityStageChanged ActivityType = "stage_changed"
)

type Activity struct {
	ID        int64        `json:"id"`
	Type      ActivityType `json:"type" validate:"required"`
	Title     string       `json:"title" validate:"required"`
	Notes     string       `json:"notes,omitempty" gorm:"type:text"`
	ContactID *int64       `json:"contact_id,omitempty"`
	DealID    *int64       `json:"deal_id,omitempty"`
	UserID    int64        `json:"user_id"`
	DueAt     *time.Time   `json:"due_at,omitempty"`
	Done      bool         `json:"done"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
