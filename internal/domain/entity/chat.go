package entity

import "time"

// Chat is uniquely identified by its (productId, buyerId, sellerId) triple;
// the repository looks up an existing chat before creating a new one.
type Chat struct {
	ID        string    `json:"id" firestore:"id"`
	ProductID string    `json:"product_id" firestore:"productId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`

	// Denormalized copy of the latest message, kept consistent with the
	// messages collection by a single batched write on send.
	LastMessage *ChatMessage `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`

	IsActive  bool      `json:"is_active" firestore:"isActive"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// OtherParticipant returns the counterpart of userID in the chat, or an
// empty string when userID is not a participant.
func (c *Chat) OtherParticipant(userID string) string {
	switch userID {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return ""
}
