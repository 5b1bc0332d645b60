package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.IsActive = true

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID

	return &chat, nil
}

func (r *firestoreChatRepository) GetByTriple(ctx context.Context, productID, buyerID, sellerID string) (*entity.Chat, error) {
	query := r.client.Collection("chats").
		Where("productId", "==", productID).
		Where("buyerId", "==", buyerID).
		Where("sellerId", "==", sellerID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to query chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID

	return &chat, nil
}

func (r *firestoreChatRepository) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Chat, error) {
	return r.listByField(ctx, "buyerId", buyerID)
}

func (r *firestoreChatRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Chat, error) {
	return r.listByField(ctx, "sellerId", sellerID)
}

func (r *firestoreChatRepository) listByField(ctx context.Context, field, value string) ([]*entity.Chat, error) {
	query := r.client.Collection("chats").
		Where(field, "==", value).
		Where("isActive", "==", true)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch chats", err)
	}

	var chats []*entity.Chat
	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			logger.Warn("Skipping malformed chat document %s: %v", doc.Ref.ID, err)
			continue
		}
		chat.ID = doc.Ref.ID
		chats = append(chats, &chat)
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	return chats, nil
}

func (r *firestoreChatRepository) Close(ctx context.Context, id string) error {
	_, err := r.client.Collection("chats").Doc(id).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to close chat", err)
	}

	return nil
}

// CreateMessage writes the message and refreshes the parent chat's
// lastMessage snapshot in a single transaction, so readers never observe
// one without the other.
func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	chatRef := r.client.Collection("chats").Doc(message.ChatID)
	messageRef := chatRef.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(chatRef); err != nil {
			return err
		}

		if err := tx.Set(messageRef, message); err != nil {
			return err
		}

		return tx.Update(chatRef, []firestore.Update{
			{Path: "lastMessage", Value: message},
			{Path: "updatedAt", Value: message.CreatedAt},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("timestamp", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.ChatMessage

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.ChatMessage
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) GetMessage(ctx context.Context, chatID, messageID string) (*entity.ChatMessage, error) {
	doc, err := r.client.Collection("chats").Doc(chatID).Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.ChatMessage
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	message.ID = doc.Ref.ID

	return &message, nil
}

func (r *firestoreChatRepository) UpdateOfferStatus(ctx context.Context, chatID, messageID, offerStatus string) error {
	chatRef := r.client.Collection("chats").Doc(chatID)
	messageRef := chatRef.Collection("messages").Doc(messageID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		chatDoc, err := tx.Get(chatRef)
		if err != nil {
			return err
		}

		var chat entity.Chat
		if err := chatDoc.DataTo(&chat); err != nil {
			return err
		}

		if err := tx.Update(messageRef, []firestore.Update{
			{Path: "offer.status", Value: offerStatus},
		}); err != nil {
			return err
		}

		if chat.LastMessage != nil && chat.LastMessage.ID == messageID {
			return tx.Update(chatRef, []firestore.Update{
				{Path: "lastMessage.offer.status", Value: offerStatus},
			})
		}
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to update offer status", err)
	}

	return nil
}

// MarkMessagesRead flips every unread message not authored by readerID in a
// single transaction. Firestore transactions require all reads before any
// write, so the refs are collected first.
func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	messages := r.client.Collection("chats").Doc(chatID).Collection("messages")

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := messages.Where("isRead", "==", false)

		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}

		var refs []*firestore.DocumentRef
		for _, doc := range docs {
			var message entity.ChatMessage
			if err := doc.DataTo(&message); err != nil {
				continue
			}
			if message.SenderID == readerID {
				continue
			}
			refs = append(refs, doc.Ref)
		}

		for _, ref := range refs {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "isRead", Value: true},
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.Internal("Failed to mark messages as read", err)
	}

	return nil
}

func (r *firestoreChatRepository) CountUnread(ctx context.Context, chatID, readerID string) (int, error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		Where("isRead", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}

	count := 0
	for _, doc := range docs {
		var message entity.ChatMessage
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.SenderID != readerID {
			count++
		}
	}

	return count, nil
}

func (r *firestoreChatRepository) ListenMessages(ctx context.Context, chatID string) (<-chan []*entity.ChatMessage, error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("timestamp", firestore.Asc)

	out := make(chan []*entity.ChatMessage)
	snapshots := query.Snapshots(ctx)

	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Message listener for chat %s stopped: %v", chatID, err)
				}
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				logger.Error("Message listener for chat %s failed to read snapshot: %v", chatID, err)
				continue
			}

			var messages []*entity.ChatMessage
			for _, doc := range docs {
				var message entity.ChatMessage
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			select {
			case out <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// ListenUserChats watches the user's buyer-side and seller-side chats with
// one scoped listener each, so only documents the user participates in are
// streamed. Each snapshot from either side re-emits the merged list.
func (r *firestoreChatRepository) ListenUserChats(ctx context.Context, userID string) (<-chan []*entity.Chat, error) {
	out := make(chan []*entity.Chat)
	updates := make(chan sideUpdate)

	var wg sync.WaitGroup
	for i, field := range []string{"buyerId", "sellerId"} {
		query := r.client.Collection("chats").
			Where(field, "==", userID).
			Where("isActive", "==", true)

		wg.Add(1)
		go func(side int, field string, snapshots *firestore.QuerySnapshotIterator) {
			defer wg.Done()
			defer snapshots.Stop()

			for {
				snapshot, err := snapshots.Next()
				if err != nil {
					if status.Code(err) != codes.Canceled {
						logger.Error("Chat list listener (%s) for user %s stopped: %v", field, userID, err)
					}
					return
				}

				docs, err := snapshot.Documents.GetAll()
				if err != nil {
					logger.Error("Chat list listener (%s) for user %s failed to read snapshot: %v", field, userID, err)
					continue
				}

				var chats []*entity.Chat
				for _, doc := range docs {
					var chat entity.Chat
					if err := doc.DataTo(&chat); err != nil {
						logger.Warn("Skipping malformed chat document %s: %v", doc.Ref.ID, err)
						continue
					}
					chat.ID = doc.Ref.ID
					chats = append(chats, &chat)
				}

				select {
				case updates <- sideUpdate{side: side, chats: chats}:
				case <-ctx.Done():
					return
				}
			}
		}(i, field, query.Snapshots(ctx))
	}

	go func() {
		wg.Wait()
		close(updates)
	}()

	go func() {
		defer close(out)

		var latest [2][]*entity.Chat
		for update := range updates {
			latest[update.side] = update.chats

			merged := append([]*entity.Chat{}, latest[0]...)
			merged = append(merged, latest[1]...)
			sort.Slice(merged, func(i, j int) bool {
				return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
			})

			select {
			case out <- merged:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

type sideUpdate struct {
	side  int
	chats []*entity.Chat
}
