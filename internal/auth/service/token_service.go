package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/yadneshx17/Auth-Api/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/yadneshx17/Auth-Api/internal/errors"
)

// Token classes embedded in the claims. The verifier rejects a token
// presented as the wrong class, so an access token cannot be replayed as a
// refresh token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenGenerator interface {
	Generate(userID string) (accessToken, refreshToken string, err error)
	Verify(tokenString, wantType string) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	Secret             string
	Method             jwt.SigningMethod
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// NewTokenService configures signing with the given symmetric secret and
// HMAC algorithm name (HS256, HS384 or HS512).
func NewTokenService(secret, algorithm string, accessMinutes, refreshMinutes int) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}

	return &TokenService{
		Secret:             secret,
		Method:             method,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}, nil
}

// Generate mints an access/refresh pair for the given subject. Expiry is
// fixed at issuance as an absolute timestamp.
func (ts *TokenService) Generate(userID string) (string, string, error) {
	now := time.Now()

	accessToken, err := ts.sign(userID, TokenTypeAccess, now, ts.AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := ts.sign(userID, TokenTypeRefresh, now, ts.RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (ts *TokenService) sign(userID, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := JWTCustomClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(ts.Method, claims).SignedString([]byte(ts.Secret))
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// Verify parses and validates a token of the expected class. Expired tokens
// come back as ErrTokenExpired; anything else wrong with the token (bad
// signature, undecodable payload, wrong class) is ErrTokenInvalid.
func (ts *TokenService) Verify(tokenString, wantType string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrTokenInvalid
	}

	if !token.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return nil, autherror.ErrTokenInvalid
	}

	return claims, nil
}
