package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/yadneshx17/Auth-Api/internal/auth/domain UserRepository

import "context"

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	// GetRefreshTokenByValue returns (nil, nil) when the token is not stored.
	GetRefreshTokenByValue(ctx context.Context, token string) (*RefreshToken, error)
	// ReplaceRefreshToken removes every refresh token owned by rt.UserID and
	// inserts rt, all inside one transaction.
	ReplaceRefreshToken(ctx context.Context, rt *RefreshToken) error
	DeleteRefreshTokensByUserID(ctx context.Context, userID int64) error
}
