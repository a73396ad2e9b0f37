package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"salescrm/internal/domain"
)

type WhatsAppRepository struct {
	db *gorm.DB
}

func NewWhatsAppRepository(db *gorm.DB) *WhatsAppRepository {
	return &WhatsAppRepository{db: db}
}

func (r *WhatsAppRepository) CreateSession(ctx context.Context, s *domain.WhatsAppSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *WhatsAppRepository) GetSession(ctx context.Context, id int64) (*domain.WhatsAppSession, error) {
	var s domain.WhatsAppSession
	tx := r.db.WithContext(ctx).First(&s, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &s, nil
}

func (r *WhatsAppRepository) GetSessionByKey(ctx context.Context, key string) (*domain.WhatsAppSession, error) {
	var s domain.WhatsAppSession
	tx := r.db.WithContext(ctx).Where("session_key = ?", key).First(&s)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &s, nil
}

func (r *WhatsAppRepository) ListSessionsByUser(ctx context.Context, userID int64) ([]domain.WhatsAppSession, error) {
	var sessions []domain.WhatsAppSession
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions)
	return sessions, tx.Error
}

// GetConnectedSession returns the user's currently connected session.
func (r *WhatsAppRepository) GetConnectedSession(ctx context.Context, userID int64) (*domain.WhatsAppSession, error) {
	var s domain.WhatsAppSession
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.SessionConnected).
		Order("connected_at DESC").
		First(&s)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &s, nil
}

func (r *WhatsAppRepository) UpdateSession(ctx context.Context, s *domain.WhatsAppSession) error {
	s.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *WhatsAppRepository) CreateMessage(ctx context.Context, m *domain.WhatsAppMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *WhatsAppRepository) ListMessages(ctx context.Context, sessionID int64, contactPhone string, limit, offset int) ([]domain.WhatsAppMessage, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.WhatsAppMessage{}).
		Where("session_id = ?", sessionID)
	if contactPhone != "" {
		q = q.Where("contact_phone = ?", contactPhone)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []domain.WhatsAppMessage
	if err := q.Order("sent_at DESC").Limit(limit).Offset(offset).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
