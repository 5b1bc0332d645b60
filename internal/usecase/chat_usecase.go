package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/internal/infrastructure/cache"
	ws "fyndit/internal/infrastructure/websocket"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

const (
	hydrationCacheTTL  = 10 * time.Minute
	defaultMessageLoad = 100
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	wsManager   *ws.Manager
	cache       *cache.Cache

	// One chat-list listener and at most one open-chat listener per user,
	// replaced with a cancel-and-reassign discipline.
	mu   sync.Mutex
	subs map[string]*userSubscriptions
}

type userSubscriptions struct {
	chatListCancel context.CancelFunc
	openChatID     string
	openChatCancel context.CancelFunc
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
	cache *cache.Cache,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		cache:       cache,
		subs:        make(map[string]*userSubscriptions),
	}
}

// ChatView is a chat hydrated with its product, the counterpart user, and
// the viewer's unread count.
type ChatView struct {
	*entity.Chat
	Product     *entity.Product `json:"product,omitempty"`
	Counterpart *entity.User    `json:"counterpart,omitempty"`
	UnreadCount int             `json:"unread_count"`
}

type CreateChatInput struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CreateOrGetChat returns the existing chat for (product, buyer, seller) or
// creates one. The buyer is always the caller; the seller comes from the
// product.
func (uc *ChatUseCase) CreateOrGetChat(ctx context.Context, buyerID string, input CreateChatInput) (*ChatView, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot start a chat about your own product", nil)
	}

	chat, err := uc.chatRepo.GetByTriple(ctx, product.ID, buyerID, product.SellerID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}

		chat = &entity.Chat{
			ProductID: product.ID,
			BuyerID:   buyerID,
			SellerID:  product.SellerID,
		}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return nil, err
		}
	}

	return uc.hydrate(ctx, chat, buyerID), nil
}

// GetUserChats unions the caller's buyer-side and seller-side chats,
// deduplicated by id and sorted by most recent activity.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatView, error) {
	asBuyer, err := uc.chatRepo.ListByBuyerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asSeller, err := uc.chatRepo.ListBySellerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(asBuyer)+len(asSeller))
	merged := make([]*entity.Chat, 0, len(asBuyer)+len(asSeller))
	for _, chat := range append(asBuyer, asSeller...) {
		if seen[chat.ID] {
			continue
		}
		seen[chat.ID] = true
		merged = append(merged, chat)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})

	views := make([]*ChatView, 0, len(merged))
	for _, chat := range merged {
		view := uc.hydrate(ctx, chat, userID)
		unread, err := uc.chatRepo.CountUnread(ctx, chat.ID, userID)
		if err != nil {
			logger.Warn("Failed to count unread for chat %s: %v", chat.ID, err)
		}
		view.UnreadCount = unread
		views = append(views, view)
	}

	return views, nil
}

func (uc *ChatUseCase) GetChat(ctx context.Context, userID, chatID string) (*ChatView, error) {
	chat, err := uc.requireParticipant(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	view := uc.hydrate(ctx, chat, userID)
	unread, err := uc.chatRepo.CountUnread(ctx, chatID, userID)
	if err != nil {
		logger.Warn("Failed to count unread for chat %s: %v", chatID, err)
	}
	view.UnreadCount = unread

	return view, nil
}

// GetChatMessages returns the chat's messages and marks everything from the
// counterpart as read, matching what opening a conversation means.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit int) ([]*entity.ChatMessage, error) {
	if _, err := uc.requireParticipant(ctx, userID, chatID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLoad
	}

	messages, err := uc.chatRepo.ListMessages(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}

	if err := uc.chatRepo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		logger.Warn("Failed to mark chat %s read for %s: %v", chatID, userID, err)
	}

	return messages, nil
}

type SendMessageInput struct {
	ChatID  string        `json:"chat_id" validate:"required"`
	Content string        `json:"content"`
	Type    string        `json:"type"`
	Offer   *entity.Offer `json:"offer,omitempty"`
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.ChatMessage, error) {
	chat, err := uc.requireParticipant(ctx, userID, input.ChatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsActive {
		return nil, errors.BadRequest("Chat is closed", nil)
	}

	messageType := input.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}
	if !entity.ValidMessageType(messageType) {
		return nil, errors.BadRequest("Invalid message type", nil)
	}
	if messageType == entity.MessageTypeText && strings.TrimSpace(input.Content) == "" {
		return nil, errors.BadRequest("Message content cannot be empty", nil)
	}
	if messageType == entity.MessageTypeOffer {
		if input.Offer == nil || input.Offer.Amount <= 0 {
			return nil, errors.BadRequest("Offer messages require a positive amount", nil)
		}
		input.Offer.Status = entity.OfferStatusPending
	}

	message := &entity.ChatMessage{
		ChatID:   input.ChatID,
		SenderID: userID,
		Content:  input.Content,
		Type:     messageType,
		Offer:    input.Offer,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.notify(chat.OtherParticipant(userID), "new_message", message)

	return message, nil
}

// RespondToOffer lets the offer's recipient accept or reject it.
func (uc *ChatUseCase) RespondToOffer(ctx context.Context, userID, chatID, messageID string, accept bool) (*entity.ChatMessage, error) {
	if _, err := uc.requireParticipant(ctx, userID, chatID); err != nil {
		return nil, err
	}

	message, err := uc.chatRepo.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if message.Type != entity.MessageTypeOffer || message.Offer == nil {
		return nil, errors.BadRequest("Message is not an offer", nil)
	}
	if message.SenderID == userID {
		return nil, errors.Forbidden("You cannot respond to your own offer", nil)
	}
	if message.Offer.Status != entity.OfferStatusPending {
		return nil, errors.BadRequest("Offer has already been resolved", nil)
	}

	newStatus := entity.OfferStatusRejected
	if accept {
		newStatus = entity.OfferStatusAccepted
	}

	if err := uc.chatRepo.UpdateOfferStatus(ctx, chatID, messageID, newStatus); err != nil {
		return nil, err
	}

	message.Offer.Status = newStatus
	uc.notify(message.SenderID, "offer_updated", message)

	return message, nil
}

func (uc *ChatUseCase) MarkChatRead(ctx context.Context, userID, chatID string) error {
	if _, err := uc.requireParticipant(ctx, userID, chatID); err != nil {
		return err
	}
	return uc.chatRepo.MarkMessagesRead(ctx, chatID, userID)
}

func (uc *ChatUseCase) CloseChat(ctx context.Context, userID, chatID string) error {
	chat, err := uc.requireParticipant(ctx, userID, chatID)
	if err != nil {
		return err
	}

	if err := uc.chatRepo.Close(ctx, chatID); err != nil {
		return err
	}

	uc.notify(chat.OtherParticipant(userID), "chat_closed", map[string]string{"chat_id": chatID})
	return nil
}

func (uc *ChatUseCase) requireParticipant(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) hydrate(ctx context.Context, chat *entity.Chat, viewerID string) *ChatView {
	view := &ChatView{Chat: chat}

	if product := uc.cachedProduct(ctx, chat.ProductID); product != nil {
		view.Product = product
	}
	if other := chat.OtherParticipant(viewerID); other != "" {
		if user := uc.cachedUser(ctx, other); user != nil {
			public := *user
			public.Email = ""
			public.PhoneNumber = ""
			public.FavoriteProducts = nil
			view.Counterpart = &public
		}
	}

	return view
}

func (uc *ChatUseCase) cachedProduct(ctx context.Context, productID string) *entity.Product {
	key := "chat:product:" + productID

	if uc.cache != nil {
		var cached entity.Product
		if uc.cache.GetJSON(ctx, key, &cached) {
			return &cached
		}
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		logger.Warn("Failed to hydrate product %s: %v", productID, err)
		return nil
	}

	if uc.cache != nil {
		uc.cache.SetJSON(ctx, key, product, hydrationCacheTTL)
	}
	return product
}

func (uc *ChatUseCase) cachedUser(ctx context.Context, userID string) *entity.User {
	key := "chat:user:" + userID

	if uc.cache != nil {
		var cached entity.User
		if uc.cache.GetJSON(ctx, key, &cached) {
			return &cached
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to hydrate user %s: %v", userID, err)
		return nil
	}

	if uc.cache != nil {
		uc.cache.SetJSON(ctx, key, user, hydrationCacheTTL)
	}
	return user
}

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (uc *ChatUseCase) notify(userID, eventType string, data interface{}) {
	if uc.wsManager == nil || userID == "" {
		return
	}

	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		logger.Error("Failed to encode %s event: %v", eventType, err)
		return
	}

	uc.wsManager.SendToUser(userID, payload)
}

// SubscribeChatList replaces the user's chat-list subscription. The listener
// is scoped to chats the user participates in; each snapshot is hydrated and
// pushed over their WebSocket connection.
func (uc *ChatUseCase) SubscribeChatList(userID string) error {
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := uc.chatRepo.ListenUserChats(ctx, userID)
	if err != nil {
		cancel()
		return err
	}

	uc.mu.Lock()
	sub := uc.subscriptions(userID)
	if sub.chatListCancel != nil {
		sub.chatListCancel()
	}
	sub.chatListCancel = cancel
	uc.mu.Unlock()

	go func() {
		for chats := range updates {
			var mine []*ChatView
			seen := make(map[string]bool)
			for _, chat := range chats {
				// A user chatting about their own listing shows up on
				// both sides of the merged snapshot.
				if seen[chat.ID] {
					continue
				}
				seen[chat.ID] = true

				view := uc.hydrate(ctx, chat, userID)
				unread, err := uc.chatRepo.CountUnread(ctx, chat.ID, userID)
				if err == nil {
					view.UnreadCount = unread
				}
				mine = append(mine, view)
			}
			uc.notify(userID, "chat_list", mine)
		}
	}()

	return nil
}

// SubscribeChat replaces the user's open-conversation subscription: the
// previous chat's listener is cancelled before the new one starts. While
// subscribed, each snapshot re-marks counterpart messages as read.
func (uc *ChatUseCase) SubscribeChat(ctx context.Context, userID, chatID string) error {
	if _, err := uc.requireParticipant(ctx, userID, chatID); err != nil {
		return err
	}

	listenCtx, cancel := context.WithCancel(context.Background())

	updates, err := uc.chatRepo.ListenMessages(listenCtx, chatID)
	if err != nil {
		cancel()
		return err
	}

	uc.mu.Lock()
	sub := uc.subscriptions(userID)
	if sub.openChatCancel != nil {
		sub.openChatCancel()
	}
	sub.openChatID = chatID
	sub.openChatCancel = cancel
	uc.mu.Unlock()

	go func() {
		for messages := range updates {
			if err := uc.chatRepo.MarkMessagesRead(listenCtx, chatID, userID); err != nil {
				logger.Warn("Failed to mark chat %s read for %s: %v", chatID, userID, err)
			}
			uc.notify(userID, "chat_messages", map[string]interface{}{
				"chat_id":  chatID,
				"messages": messages,
			})
		}
	}()

	return nil
}

// UnsubscribeChat tears down the open-conversation listener, if any.
func (uc *ChatUseCase) UnsubscribeChat(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if sub, ok := uc.subs[userID]; ok && sub.openChatCancel != nil {
		sub.openChatCancel()
		sub.openChatCancel = nil
		sub.openChatID = ""
	}
}

// UnsubscribeAll cancels every listener the user holds. Called when their
// connection drops.
func (uc *ChatUseCase) UnsubscribeAll(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	sub, ok := uc.subs[userID]
	if !ok {
		return
	}
	if sub.chatListCancel != nil {
		sub.chatListCancel()
	}
	if sub.openChatCancel != nil {
		sub.openChatCancel()
	}
	delete(uc.subs, userID)
}

// subscriptions returns the user's handle record, creating it if needed.
// Caller must hold mu.
func (uc *ChatUseCase) subscriptions(userID string) *userSubscriptions {
	sub, ok := uc.subs[userID]
	if !ok {
		sub = &userSubscriptions{}
		uc.subs[userID] = sub
	}
	return sub
}
