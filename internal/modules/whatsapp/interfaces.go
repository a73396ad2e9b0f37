package whatsapp

import (
	"context"

	"salescrm/internal/domain"
)

// Repository covers session and message persistence.
type Repository interface {
	CreateSession(ctx context.Context, s *domain.WhatsAppSession) error
	GetSession(ctx context.Context, id int64) (*domain.WhatsAppSession, error)
	GetSessionByKey(ctx context.Context, key string) (*domain.WhatsAppSession, error)
	ListSessionsByUser(ctx context.Context, userID int64) ([]domain.WhatsAppSession, error)
	GetConnectedSession(ctx context.Context, userID int64) (*domain.WhatsAppSession, error)
	UpdateSession(ctx context.Context, s *domain.WhatsAppSession) error
	CreateMessage(ctx context.Context, m *domain.WhatsAppMessage) error
	ListMessages(ctx context.Context, sessionID int64, contactPhone string, limit, offset int) ([]domain.WhatsAppMessage, int64, error)
}

// ContactResolver links message phone numbers back to CRM contacts.
type ContactResolver interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Contact, error)
}

// Notifier pushes session and message events to the owning user's
// websocket connection. Best effort; a missing connection is not an
// error.
type Notifier interface {
	SessionUpdated(userID int64, s *domain.WhatsAppSession)
	MessageLogged(userID int64, m *domain.WhatsAppMessage)
}
