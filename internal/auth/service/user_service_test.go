package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yadneshx17/Auth-Api/internal/auth/domain"
	"github.com/yadneshx17/Auth-Api/internal/auth/dto"
	"github.com/yadneshx17/Auth-Api/internal/auth/password"
	"github.com/yadneshx17/Auth-Api/internal/auth/service"
	autherror "github.com/yadneshx17/Auth-Api/internal/errors"
	"github.com/yadneshx17/Auth-Api/internal/mocks"
)

var testHashParams = password.Params{
	Memory:      8 * 1024,
	Time:        1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestService(t *testing.T) (*service.UserService, *mocks.MockUserRepository, *mocks.MockTokenGenerator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	hasher := password.NewHasher(testHashParams)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return service.NewUserService(mockRepo, mockTokens, hasher, log), mockRepo, mockTokens
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()

	hash, err := password.NewHasher(testHashParams).Hash(plain)
	require.NoError(t, err)

	return hash
}

func TestUserService_Signup_Success(t *testing.T) {
	s, mockRepo, _ := newTestService(t)

	input := dto.SignupInput{
		Email:    "a@x.com",
		Password: "password123",
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *domain.User) error {
			user.ID = 1
			return nil
		})

	user, err := s.Signup(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, input.Email, user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, input.Password, user.PasswordHash)
	assert.NotZero(t, user.CreatedAt)
	assert.NotZero(t, user.UpdatedAt)
}

func TestUserService_Signup_EmailAlreadyExists(t *testing.T) {
	s, mockRepo, _ := newTestService(t)

	input := dto.SignupInput{
		Email:    "a@x.com",
		Password: "password123",
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).
		Return(&domain.User{ID: 7, Email: input.Email}, nil)

	user, err := s.Signup(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	assert.Nil(t, user)
}

func TestUserService_Signup_GetByEmailError(t *testing.T) {
	s, mockRepo, _ := newTestService(t)

	expectedError := errors.New("database error")
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, expectedError)

	user, err := s.Signup(context.Background(), dto.SignupInput{Email: "a@x.com", Password: "password123"})

	assert.ErrorIs(t, err, expectedError)
	assert.Nil(t, user)
}

func TestUserService_Login_Success(t *testing.T) {
	s, mockRepo, mockTokens := newTestService(t)

	input := dto.LoginInput{Email: "a@x.com", Password: "password123"}
	user := &domain.User{
		ID:           42,
		Email:        input.Email,
		PasswordHash: hashPassword(t, input.Password),
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(user, nil)
	mockTokens.EXPECT().Generate("42").Return("access-token", "refresh-token", nil)
	mockRepo.EXPECT().ReplaceRefreshToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rt *domain.RefreshToken) error {
			assert.Equal(t, int64(42), rt.UserID)
			assert.Equal(t, "refresh-token", rt.Token)
			assert.NotEmpty(t, rt.ID)
			return nil
		})

	resp, err := s.Login(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestUserService_Login_UniformFailure(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
	}{
		{
			name: "unknown email",
			user: nil,
		},
		{
			name: "wrong password",
			user: &domain.User{ID: 42, Email: "a@x.com", PasswordHash: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mockRepo, _ := newTestService(t)

			if tt.user != nil {
				tt.user.PasswordHash = hashPassword(t, "the real password")
			}
			mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(tt.user, nil)

			resp, err := s.Login(context.Background(), dto.LoginInput{Email: "a@x.com", Password: "password123"})

			assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
			assert.Nil(t, resp)
		})
	}
}

// A corrupt stored hash behaves exactly like a wrong password.
func TestUserService_Login_MalformedStoredHash(t *testing.T) {
	s, mockRepo, _ := newTestService(t)

	user := &domain.User{ID: 42, Email: "a@x.com", PasswordHash: "not-a-valid-hash"}
	mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

	resp, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "password123"})

	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestUserService_Refresh_Success(t *testing.T) {
	s, mockRepo, mockTokens := newTestService(t)

	input := dto.RefreshInput{RefreshToken: "old-refresh-token"}
	claims := &service.JWTCustomClaims{TokenType: service.TokenTypeRefresh}
	claims.Subject = "42"

	mockTokens.EXPECT().Verify(input.RefreshToken, service.TokenTypeRefresh).Return(claims, nil)
	mockRepo.EXPECT().GetRefreshTokenByValue(gomock.Any(), input.RefreshToken).
		Return(&domain.RefreshToken{ID: "row-1", UserID: 42, Token: input.RefreshToken}, nil)
	mockTokens.EXPECT().Generate("42").Return("new-access-token", "new-refresh-token", nil)
	mockRepo.EXPECT().ReplaceRefreshToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rt *domain.RefreshToken) error {
			assert.Equal(t, int64(42), rt.UserID)
			assert.Equal(t, "new-refresh-token", rt.Token)
			return nil
		})

	resp, err := s.Refresh(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", resp.AccessToken)
	assert.Equal(t, "new-refresh-token", resp.RefreshToken)
}

func TestUserService_Refresh_VerifierRejects(t *testing.T) {
	s, _, mockTokens := newTestService(t)

	mockTokens.EXPECT().Verify("expired-or-garbage", service.TokenTypeRefresh).
		Return(nil, autherror.ErrTokenExpired)

	resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "expired-or-garbage"})

	assert.ErrorIs(t, err, autherror.ErrInvalidRefreshToken)
	assert.Nil(t, resp)
}

// A superseded token still verifies cryptographically but is gone from the
// store; presenting it counts as reuse and revokes the account's sessions.
func TestUserService_Refresh_SupersededTokenRejected(t *testing.T) {
	s, mockRepo, mockTokens := newTestService(t)

	input := dto.RefreshInput{RefreshToken: "superseded-token"}
	claims := &service.JWTCustomClaims{TokenType: service.TokenTypeRefresh}
	claims.Subject = "42"

	mockTokens.EXPECT().Verify(input.RefreshToken, service.TokenTypeRefresh).Return(claims, nil)
	mockRepo.EXPECT().GetRefreshTokenByValue(gomock.Any(), input.RefreshToken).Return(nil, nil)
	mockRepo.EXPECT().DeleteRefreshTokensByUserID(gomock.Any(), int64(42)).Return(nil)

	resp, err := s.Refresh(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrInvalidRefreshToken)
	assert.Nil(t, resp)
}

func TestUserService_Refresh_NonNumericSubject(t *testing.T) {
	s, _, mockTokens := newTestService(t)

	claims := &service.JWTCustomClaims{TokenType: service.TokenTypeRefresh}
	claims.Subject = "not-a-number"

	mockTokens.EXPECT().Verify("token", service.TokenTypeRefresh).Return(claims, nil)

	resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "token"})

	assert.ErrorIs(t, err, autherror.ErrInvalidRefreshToken)
	assert.Nil(t, resp)
}

func TestUserService_Logout_Idempotent(t *testing.T) {
	s, mockRepo, _ := newTestService(t)

	// Deleting zero rows the second time is still a success.
	mockRepo.EXPECT().DeleteRefreshTokensByUserID(gomock.Any(), int64(42)).Return(nil).Times(2)

	assert.NoError(t, s.Logout(context.Background(), 42))
	assert.NoError(t, s.Logout(context.Background(), 42))
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).
			Return(&domain.User{ID: 42, Email: "a@x.com"}, nil)

		user, err := s.GetUserByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
	})

	t.Run("deleted mid-session", func(t *testing.T) {
		s, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)

		user, err := s.GetUserByID(context.Background(), 42)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
		assert.Nil(t, user)
	})
}
