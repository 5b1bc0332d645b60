package usecase

import "context"

// FirebaseAuthClient abstracts the identity provider so the auth flows can
// be tested without talking to Firebase.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignInWithEmailPassword(ctx context.Context, email, password string) (idToken, refreshToken string, err error)
	RefreshIDToken(ctx context.Context, refreshToken string) (idToken, newRefreshToken string, err error)
}
