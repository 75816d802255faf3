package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"etshoes/internal/cache"
	"etshoes/internal/model"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
	resetTokenKeyPrefix   = "password_reset:"

	// ResetTokenExpiry bounds how long a password reset link works.
	ResetTokenExpiry = time.Hour
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, role model.Role, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uuid.UUID, role model.Role, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
	StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

type refreshTokenData struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, role model.Role, ttl time.Duration) error {
	payload, err := json.Marshal(refreshTokenData{UserID: userID, Role: role})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.SetStrict(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, model.Role, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return uuid.Nil, "", fmt.Errorf("refresh token not found")
	}

	var tokenData refreshTokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return uuid.Nil, "", fmt.Errorf("unmarshal token data: %w", err)
	}
	if tokenData.UserID == uuid.Nil {
		return uuid.Nil, "", fmt.Errorf("invalid user_id in token data")
	}
	return tokenData.UserID, tokenData.Role, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // fail safe
	}
	return data != nil, nil
}

// StoreResetToken remembers which profile a password reset token belongs to.
func (s *TokenStore) StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.cache.SetStrict(ctx, resetTokenKeyPrefix+token, []byte(userID.String()), ttl)
}

// ConsumeResetToken returns the profile id of a reset token and invalidates it.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	data, _ := s.cache.Take(ctx, resetTokenKeyPrefix+token)
	if data == nil {
		return uuid.Nil, fmt.Errorf("reset token not found")
	}
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse reset token owner: %w", err)
	}
	return id, nil
}

// NewResetToken returns a random URL-safe reset token.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
