package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salescrm/internal/domain"
	"salescrm/internal/repository"
)

type Service struct {
	repo     Repository
	contacts ContactResolver
	notifier Notifier
}

func NewService(repo Repository, contacts ContactResolver, notifier Notifier) *Service {
	return &Service{repo: repo, contacts: contacts, notifier: notifier}
}

// CreateSession opens a pairing session in waiting_qr. The QR payload is
// opaque to the backend; the client renders it and the provider consumes
// it during pairing.
func (s *Service) CreateSession(ctx context.Context, userID int64) (*domain.WhatsAppSession, error) {
	session := &domain.WhatsAppSession{
		SessionKey: uuid.NewString(),
		UserID:     userID,
		Status:     domain.SessionWaitingQR,
		QRCode:     newQRPayload(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SessionUpdated(userID, session)
	}
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id, userID int64) (*domain.WhatsAppSession, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context, userID int64) ([]domain.WhatsAppSession, error) {
	return s.repo.ListSessionsByUser(ctx, userID)
}

// UpdateStatus applies a provider-reported status change. Transitions
// outside the session lifecycle are rejected. Re-entering waiting_qr
// issues a fresh QR payload for re-pairing.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateSessionStatusRequest) (*domain.WhatsAppSession, error) {
	to := domain.SessionStatus(req.Status)
	switch to {
	case domain.SessionWaitingQR, domain.SessionConnecting, domain.SessionConnected, domain.SessionDisconnected:
	default:
		return nil, ErrInvalidStatus
	}

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	session.Status = to
	switch to {
	case domain.SessionConnected:
		now := time.Now()
		session.ConnectedAt = &now
		if req.PhoneNumber != "" {
			session.PhoneNumber = req.PhoneNumber
		}
		session.QRCode = ""
	case domain.SessionWaitingQR:
		session.QRCode = newQRPayload()
		session.ConnectedAt = nil
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SessionUpdated(session.UserID, session)
	}
	return session, nil
}

// SendMessage logs an outbound message against the user's connected
// session. Without a connected session there is nothing to send over.
func (s *Service) SendMessage(ctx context.Context, userID int64, req SendMessageRequest) (*domain.WhatsAppMessage, error) {
	session, err := s.repo.GetConnectedSession(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoConnectedSession
		}
		return nil, err
	}

	m := &domain.WhatsAppMessage{
		SessionID:    session.ID,
		ContactPhone: req.ContactPhone,
		Direction:    domain.MessageOutbound,
		Body:         req.Body,
		ContactID:    s.resolveContact(ctx, req.ContactPhone),
		SentAt:       time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.MessageLogged(userID, m)
	}
	return m, nil
}

// RecordInbound logs a provider-delivered message. The session is looked
// up by key since the callback comes from outside the API surface.
func (s *Service) RecordInbound(ctx context.Context, req InboundMessageRequest) (*domain.WhatsAppMessage, error) {
	session, err := s.repo.GetSessionByKey(ctx, req.SessionKey)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	m := &domain.WhatsAppMessage{
		SessionID:    session.ID,
		ContactPhone: req.ContactPhone,
		Direction:    domain.MessageInbound,
		Body:         req.Body,
		ContactID:    s.resolveContact(ctx, req.ContactPhone),
		SentAt:       time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.MessageLogged(session.UserID, m)
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, sessionID, userID int64, contactPhone string, limit, offset int) ([]domain.WhatsAppMessage, int64, error) {
	if _, err := s.GetSession(ctx, sessionID, userID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, sessionID, contactPhone, limit, offset)
}

func (s *Service) resolveContact(ctx context.Context, phone string) *int64 {
	if s.contacts == nil {
		return nil
	}
	c, err := s.contacts.GetByPhone(ctx, phone)
	if err != nil {
		return nil
	}
	return &c.ID
}

func newQRPayload() string {
	return fmt.Sprintf("wa-pair:%s", uuid.NewString())
}
