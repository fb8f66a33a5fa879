package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yadneshx17/Auth-Api/internal/auth/domain"
	"github.com/yadneshx17/Auth-Api/internal/auth/dto"
	"github.com/yadneshx17/Auth-Api/internal/auth/password"
	autherror "github.com/yadneshx17/Auth-Api/internal/errors"
)

const tokenTypeBearer = "bearer"

type UserService struct {
	repo   domain.UserRepository
	tokens TokenGenerator
	hasher *password.Hasher
	log    *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, hasher *password.Hasher, log *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		log:    log,
	}
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and mints a token pair. A missing account and
// a wrong password fail identically so the response cannot be used to probe
// which emails exist.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || !s.passwordMatches(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.Generate(strconv.FormatInt(user.ID, 10))
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.repo.ReplaceRefreshToken(ctx, newRefreshTokenRow(user.ID, refreshToken)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Refresh rotates a refresh token. The presented token must verify as
// refresh-class and still be the stored token for its subject; a well-signed
// token that is no longer stored counts as reuse, and every session for that
// subject is revoked before the call fails.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokens.Verify(input.RefreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	stored, err := s.repo.GetRefreshTokenByValue(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserID != userID {
		s.log.Warn("refresh token reuse detected, revoking sessions", "user_id", userID)
		if err := s.repo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			s.log.Warn("failed to revoke sessions after reuse", "user_id", userID, "error", err)
		}
		return nil, autherror.ErrInvalidRefreshToken
	}

	accessToken, refreshToken, err := s.tokens.Generate(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.repo.ReplaceRefreshToken(ctx, newRefreshTokenRow(userID, refreshToken)); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Logout revokes every session for the account. Revoking an account with no
// sessions succeeds.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeleteRefreshTokensByUserID(ctx, userID)
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return user, nil
}

// passwordMatches folds malformed-hash errors into a plain mismatch; a
// corrupt stored hash must not behave differently from a wrong password.
func (s *UserService) passwordMatches(plain, hash string) bool {
	ok, err := s.hasher.Verify(plain, hash)
	if err != nil {
		s.log.Warn("stored password hash failed to parse", "error", err)
		return false
	}
	return ok
}

func newRefreshTokenRow(userID int64, token string) *domain.RefreshToken {
	now := time.Now()
	return &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
