package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeOffer  = "offer"
	MessageTypeSystem = "system"
)

const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
	OfferStatusExpired  = "expired"
)

type Offer struct {
	Amount   float64 `json:"amount" firestore:"amount"`
	Currency string  `json:"currency" firestore:"currency"`
	Status   string  `json:"status" firestore:"status"`
}

// ChatMessage is append-only; only IsRead and the offer status mutate after
// creation.
type ChatMessage struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id" firestore:"chatId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	Type      string    `json:"type" firestore:"messageType"`
	Offer     *Offer    `json:"offer,omitempty" firestore:"offer,omitempty"`
	IsRead    bool      `json:"is_read" firestore:"isRead"`
	CreatedAt time.Time `json:"created_at" firestore:"timestamp"`
}

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeOffer, MessageTypeSystem:
		return true
	}
	return false
}
