package whatsapp

type UpdateSessionStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type SendMessageRequest struct {
	ContactPhone string `json:"contact_phone" binding:"required"`
	Body         string `json:"body" binding:"required"`
}

// InboundMessageRequest is the provider callback payload for a message
// received on a paired device. The session is addressed by its key, not
// its numeric id, because the provider never sees internal ids.
type InboundMessageRequest struct {
	SessionKey   string `json:"session_key" binding:"required"`
	ContactPhone string `json:"contact_phone" binding:"required"`
	Body         string `json:"body" binding:"required"`
}
