package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
)

// In-memory repository doubles mirroring the backend query semantics the
// Firestore adapters rely on.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	seq      int

	favoriteIncrements map[string]int
	viewIncrements     map[string]int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:           make(map[string]*entity.Product),
		favoriteIncrements: make(map[string]int),
		viewIncrements:     make(map[string]int),
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		r.seq++
		product.ID = fmt.Sprintf("p%d", r.seq)
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.Status == "" {
		product.Status = entity.ProductStatusActive
	}
	if product.SaleStatus == "" {
		product.SaleStatus = entity.SaleStatusForSale
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Search(ctx context.Context, filters entity.SearchFilters, limit int, after *repository.SearchCursor) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Product
	for _, p := range r.products {
		if p.Status != entity.ProductStatusActive {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Subcategory != "" && p.Subcategory != filters.Subcategory {
			continue
		}
		if len(filters.Condition) > 0 && !containsString(filters.Condition, p.Condition) {
			continue
		}
		if filters.PriceRange != nil {
			if p.Price < float64(filters.PriceRange.Min) || p.Price > float64(filters.PriceRange.Max) {
				continue
			}
		}
		copied := *p
		matched = append(matched, &copied)
	}

	// Id is the tiebreak, matching the Firestore ordering: ascending on
	// price-low, descending on the Desc sorts.
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filters.SortBy {
		case entity.SortPriceLow:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.ID < b.ID
		case entity.SortPriceHigh:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.ID > b.ID
		case entity.SortPopularity:
			if a.Favorites != b.Favorites {
				return a.Favorites > b.Favorites
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})

	if after != nil {
		cut := 0
		for i, p := range matched {
			var passed bool
			switch filters.SortBy {
			case entity.SortPriceLow:
				passed = p.Price > after.Price || (p.Price == after.Price && p.ID > after.DocID)
			case entity.SortPriceHigh:
				passed = p.Price < after.Price || (p.Price == after.Price && p.ID < after.DocID)
			case entity.SortPopularity:
				passed = p.Favorites < after.Favorites || (p.Favorites == after.Favorites && p.ID < after.DocID)
			default:
				passed = p.CreatedAt.Before(after.Time) || (p.CreatedAt.Equal(after.Time) && p.ID < after.DocID)
			}
			if passed {
				cut = i
				break
			}
			cut = i + 1
		}
		matched = matched[cut:]
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeProductRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProductRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	p.Views++
	r.viewIncrements[id]++
	return nil
}

func (r *fakeProductRepo) IncrementFavorites(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	p.Favorites += delta
	r.favoriteIncrements[id] += delta
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getByField(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getByField(func(u *entity.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) getByField(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.LastLoginAt = time.Now()
	return nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*entity.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]*entity.Favorite)}
}

func favKey(userID, productID string) string {
	return userID + "_" + productID
}

func (r *fakeFavoriteRepo) Get(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fav, ok := r.favorites[favKey(userID, productID)]
	if !ok {
		return nil, errors.NotFound("Favorite", nil)
	}
	copied := *fav
	return &copied, nil
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.favorites[favKey(userID, productID)] = &entity.Favorite{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	}
	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, favKey(userID, productID))
	return nil
}

func (r *fakeFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Favorite
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			copied := *fav
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

type chatListListener struct {
	userID string
	ctx    context.Context
}

type fakeChatRepo struct {
	mu            sync.Mutex
	chats         map[string]*entity.Chat
	messages      map[string][]*entity.ChatMessage
	seq           int
	chatListeners []*chatListListener
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.ChatMessage),
	}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID == "" {
		r.seq++
		chat.ID = fmt.Sprintf("c%d", r.seq)
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.IsActive = true
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) GetByTriple(ctx context.Context, productID, buyerID, sellerID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chat := range r.chats {
		if chat.ProductID == productID && chat.BuyerID == buyerID && chat.SellerID == sellerID {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Chat, error) {
	return r.list(func(c *entity.Chat) bool { return c.BuyerID == buyerID })
}

func (r *fakeChatRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Chat, error) {
	return r.list(func(c *entity.Chat) bool { return c.SellerID == sellerID })
}

func (r *fakeChatRepo) list(match func(*entity.Chat) bool) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Chat
	for _, chat := range r.chats {
		if chat.IsActive && match(chat) {
			copied := *chat
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeChatRepo) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.IsActive = false
	return nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[message.ChatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}

	if message.ID == "" {
		r.seq++
		message.ID = fmt.Sprintf("m%d", r.seq)
	}
	message.CreatedAt = time.Now()

	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)

	snapshot := *message
	chat.LastMessage = &snapshot
	chat.UpdatedAt = message.CreatedAt
	return nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages[chatID]
	out := make([]*entity.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		out = append(out, &copied)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChatRepo) GetMessage(ctx context.Context, chatID, messageID string) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[chatID] {
		if m.ID == messageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) UpdateOfferStatus(ctx context.Context, chatID, messageID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[chatID] {
		if m.ID == messageID && m.Offer != nil {
			m.Offer.Status = status
			if chat, ok := r.chats[chatID]; ok && chat.LastMessage != nil && chat.LastMessage.ID == messageID {
				chat.LastMessage.Offer.Status = status
			}
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[chatID] {
		if m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *fakeChatRepo) CountUnread(ctx context.Context, chatID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, m := range r.messages[chatID] {
		if !m.IsRead && m.SenderID != readerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeChatRepo) ListenMessages(ctx context.Context, chatID string) (<-chan []*entity.ChatMessage, error) {
	ch := make(chan []*entity.ChatMessage)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (r *fakeChatRepo) ListenUserChats(ctx context.Context, userID string) (<-chan []*entity.Chat, error) {
	r.mu.Lock()
	r.chatListeners = append(r.chatListeners, &chatListListener{userID: userID, ctx: ctx})
	r.mu.Unlock()

	ch := make(chan []*entity.Chat)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (r *fakeChatRepo) listeners() []*chatListListener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*chatListListener{}, r.chatListeners...)
}
