package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyndit/pkg/errors"
)

// fakeAuthProvider is an in-memory stand-in for the Firebase auth client.
type fakeAuthProvider struct {
	accounts map[string]string // email -> password
	uids     map[string]string // email -> uid
	deleted  []string
	seq      int

	createErr error
}

func newFakeAuthProvider() *fakeAuthProvider {
	return &fakeAuthProvider{
		accounts: make(map[string]string),
		uids:     make(map[string]string),
	}
}

func (f *fakeAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.seq++
	uid := fmt.Sprintf("uid%d", f.seq)
	f.accounts[email] = password
	f.uids[email] = uid
	return uid, nil
}

func (f *fakeAuthProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	// Tokens are minted as "token-for-<uid>" below.
	var uid string
	if _, err := fmt.Sscanf(token, "token-for-%s", &uid); err != nil {
		return "", fmt.Errorf("malformed token")
	}
	return uid, nil
}

func (f *fakeAuthProvider) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	for email, id := range f.uids {
		if id == uid {
			f.accounts[email] = newPassword
			return nil
		}
	}
	return fmt.Errorf("unknown uid")
}

func (f *fakeAuthProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	if _, ok := f.accounts[email]; !ok {
		return "", fmt.Errorf("no account for %s", email)
	}
	return "https://example.com/reset", nil
}

func (f *fakeAuthProvider) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeAuthProvider) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	stored, ok := f.accounts[email]
	if !ok || stored != password {
		return "", "", fmt.Errorf("invalid credentials")
	}
	return "token-for-" + f.uids[email], "refresh-" + f.uids[email], nil
}

func (f *fakeAuthProvider) RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error) {
	return "refreshed-token", "refreshed-refresh", nil
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Alice_99", "alice_99", false},
		{"  Bob  ", "bob", false},
		{"ab", "", true},
		{"has space", "", true},
		{"dash-name", "", true},
		{"dot.name", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateUsername(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	provider := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, provider)
	ctx := context.Background()

	result, err := uc.Register(ctx, RegisterInput{
		Email:    "alice@example.com",
		Password: "s3cret",
		Username: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "alice", result.User.DisplayName, "display name falls back to username")
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := userRepo.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
}

func TestRegisterConflicts(t *testing.T) {
	userRepo := newFakeUserRepo()
	provider := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, provider)
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "s3cret", Username: "alice"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, RegisterInput{Email: "other@example.com", Password: "s3cret", Username: "ALICE"})
	assert.True(t, errors.Is(err, "CONFLICT"), "username taken: %v", err)

	_, err = uc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "s3cret", Username: "alice2"})
	assert.True(t, errors.Is(err, "CONFLICT"), "email taken: %v", err)
}

func TestLoginByUsername(t *testing.T) {
	userRepo := newFakeUserRepo()
	provider := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, provider)
	ctx := context.Background()

	registered, err := uc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "hunter2", Username: "bob"})
	require.NoError(t, err)

	result, err := uc.Login(ctx, "bob", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)

	stored, err := userRepo.GetByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.False(t, stored.LastLoginAt.IsZero())

	result, err = uc.Login(ctx, "bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)

	_, err = uc.Login(ctx, "bob", "wrong")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = uc.Login(ctx, "nobody", "hunter2")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestCheckUsername(t *testing.T) {
	userRepo := newFakeUserRepo()
	uc := NewAuthUseCase(userRepo, newFakeAuthProvider())
	ctx := context.Background()

	available, err := uc.CheckUsername(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = uc.Register(ctx, RegisterInput{Email: "carol@example.com", Password: "s3cret", Username: "carol"})
	require.NoError(t, err)

	available, err = uc.CheckUsername(ctx, "Carol")
	require.NoError(t, err)
	assert.False(t, available, "case-insensitive match")

	_, err = uc.CheckUsername(ctx, "c")
	assert.Error(t, err)
}

func TestRequestPasswordResetHidesExistence(t *testing.T) {
	uc := NewAuthUseCase(newFakeUserRepo(), newFakeAuthProvider())

	// Unknown emails must not be distinguishable from known ones.
	assert.NoError(t, uc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestUpdatePassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	provider := newFakeAuthProvider()
	uc := NewAuthUseCase(userRepo, provider)
	ctx := context.Background()

	registered, err := uc.Register(ctx, RegisterInput{Email: "dave@example.com", Password: "oldpass", Username: "dave"})
	require.NoError(t, err)

	err = uc.UpdatePassword(ctx, registered.User.ID, "wrong", "newpass")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	require.NoError(t, uc.UpdatePassword(ctx, registered.User.ID, "oldpass", "newpass"))

	_, err = uc.Login(ctx, "dave", "newpass")
	assert.NoError(t, err)
}
