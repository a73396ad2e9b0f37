package domain

import "time"

type SessionStatus string

const (
	SessionWaitingQR    SessionStatus = "waiting_qr"
	SessionConnecting   SessionStatus = "connecting"
	SessionConnected    SessionStatus = "connected"
	SessionDisconnected SessionStatus = "disconnected"
)

type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

// WhatsAppSession tracks the link between a CRM user and the external
// messaging provider. The provider reports status changes through a
// callback; the QR payload is what the client renders for pairing.
type WhatsAppSession struct {
	ID          int64         `json:"id"`
	SessionKey  string        `json:"session_key" gorm:"uniqueIndex"`
	UserID      int64         `json:"user_id"`
	Status      SessionStatus `json:"status"`
	QRCode      string        `json:"qr_code,omitempty" gorm:"type:text"`
	PhoneNumber string        `json:"phone_number,omitempty"`
	ConnectedAt *time.Time    `json:"connected_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type WhatsAppMessage struct {
	ID           int64            `json:"id"`
	SessionID    int64            `json:"session_id"`
	ContactPhone string           `json:"contact_phone"`
	Direction    MessageDirection `json:"direction"`
	Body         string           `json:"body" gorm:"type:text"`
	ContactID    *int64           `json:"contact_id,omitempty"`
	SentAt       time.Time        `json:"sent_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CanTransition reports whether a session may move to the given status.
// waiting_qr -> connecting -> connected -> disconnected, and a
// disconnected session may be sent back to waiting_qr for re-pairing.
func (s *WhatsAppSession) CanTransition(to SessionStatus) bool {
	switch s.Status {
	case SessionWaitingQR:
		return to == SessionConnecting || to == SessionDisconnected
	case SessionConnecting:
		return to == SessionConnected || to == SessionDisconnected
	case SessionConnected:
		return to == SessionDisconnected
	case SessionDisconnected:
		return to == SessionWaitingQR
	}
	return false
}
