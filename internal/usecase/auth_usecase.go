package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
}

type AuthResult struct {
	User         *entity.User
	Token        string
	RefreshToken string
}

// ValidateUsername normalizes the username to lowercase and rejects names
// shorter than three characters or containing anything beyond letters,
// digits, and underscores.
func ValidateUsername(username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 {
		return "", errors.BadRequest("Username must be at least 3 characters", nil)
	}
	if !usernamePattern.MatchString(username) {
		return "", errors.BadRequest("Username may only contain letters, numbers, and underscores", nil)
	}
	return username, nil
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username, err := ValidateUsername(input.Username)
	if err != nil {
		return nil, err
	}

	// Availability pre-checks. Not atomic with the create below: two
	// concurrent registrations for the same name can both pass. See
	// CheckUsername for the UI-facing variant of the same check.
	if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.Conflict("Username already taken")
	}
	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = username
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, displayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:               uid,
		Email:            input.Email,
		Username:         username,
		DisplayName:      displayName,
		FavoriteProducts: []string{},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll back the auth account so the email is not left orphaned.
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to clean up auth account %s after profile create failure: %v", uid, delErr)
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Login accepts either an email address or a username as the identifier.
func (uc *AuthUseCase) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	email := identifier
	if !strings.Contains(identifier, "@") {
		username, err := ValidateUsername(identifier)
		if err != nil {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		user, err := uc.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		email = user.Email
	}

	token, refreshToken, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if err := uc.userRepo.TouchLastLogin(ctx, uid); err != nil {
		logger.Warn("Failed to record last login for %s: %v", uid, err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

type SocialLoginInput struct {
	IDToken     string
	DisplayName string
	Email       string
	PhotoURL    string
}

// SocialLogin verifies a provider-issued ID token and creates the profile
// document on first sign-in.
func (uc *AuthUseCase) SocialLogin(ctx context.Context, input SocialLoginInput) (*AuthResult, error) {
	uid, err := uc.firebaseAuth.VerifyToken(ctx, input.IDToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid ID token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}

		username, err := uc.availableUsername(ctx, input.Email)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		user = &entity.User{
			ID:               uid,
			Email:            input.Email,
			Username:         username,
			DisplayName:      input.DisplayName,
			PhotoURL:         input.PhotoURL,
			FavoriteProducts: []string{},
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, errors.Internal("Failed to create user record", err)
		}
	}

	if err := uc.userRepo.TouchLastLogin(ctx, uid); err != nil {
		logger.Warn("Failed to record last login for %s: %v", uid, err)
	}

	return &AuthResult{
		User:  user,
		Token: input.IDToken,
	}, nil
}

// availableUsername derives a username from the email local part, appending
// a numeric suffix until the name is free.
func (uc *AuthUseCase) availableUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = "user" + base
	}

	candidate := base
	for i := 1; i <= 50; i++ {
		if _, err := uc.userRepo.GetByUsername(ctx, candidate); err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return candidate, nil
			}
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}

	return "", errors.Internal("Failed to find an available username", nil)
}

// CheckUsername reports whether a username is free. Advisory only: the
// answer can be stale by the time the caller registers.
func (uc *AuthUseCase) CheckUsername(ctx context.Context, username string) (bool, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return false, err
	}

	_, err = uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return true, nil
		}
		return false, err
	}

	return false, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	token, newRefresh, err := uc.firebaseAuth.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return "", "", errors.Unauthorized("Invalid refresh token", err)
	}
	return token, newRefresh, nil
}

// RequestPasswordReset always reports success to the caller so the endpoint
// cannot be used to probe which emails are registered.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	link, err := uc.firebaseAuth.PasswordResetLink(ctx, email)
	if err != nil {
		logger.Warn("Password reset link for %s not generated: %v", email, err)
		return nil
	}

	logger.Info("Password reset link generated for %s: %s", email, link)
	return nil
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return errors.NotFound("User", err)
	}

	if _, _, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, user.Email, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.firebaseAuth.UpdateUserPassword(ctx, uid, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}
