package repository

import (
	"context"

	"fyndit/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)

	// GetByTriple finds the chat for a (product, buyer, seller) pairing, or
	// a NOT_FOUND error when none exists.
	GetByTriple(ctx context.Context, productID, buyerID, sellerID string) (*entity.Chat, error)

	ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Chat, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Chat, error)
	Close(ctx context.Context, id string) error

	// CreateMessage writes the message and the parent chat's denormalized
	// last-message snapshot in one atomic batch.
	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error)
	GetMessage(ctx context.Context, chatID, messageID string) (*entity.ChatMessage, error)

	// UpdateOfferStatus rewrites the offer status on a message, mirroring
	// the change into the parent chat's last-message snapshot when that
	// snapshot points at the same message.
	UpdateOfferStatus(ctx context.Context, chatID, messageID, status string) error

	// MarkMessagesRead flips the read flag on every unread message in the
	// chat not authored by readerID, in one batched write.
	MarkMessagesRead(ctx context.Context, chatID, readerID string) error
	CountUnread(ctx context.Context, chatID, readerID string) (int, error)

	// ListenMessages delivers successive full snapshots of the chat's
	// message list until ctx is cancelled. The channel is closed on
	// cancellation or listener failure.
	ListenMessages(ctx context.Context, chatID string) (<-chan []*entity.ChatMessage, error)

	// ListenUserChats delivers successive full snapshots of the active
	// chats the user participates in, as buyer or seller, until ctx is
	// cancelled. Snapshots may repeat a chat when the user plays both
	// roles; deduplication happens above the repository.
	ListenUserChats(ctx context.Context, userID string) (<-chan []*entity.Chat, error)
}
