// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package admin implements the operator surface of the platform: login with
// the single shared credential, session revocation, the story gallery, and
// the usage dashboard.
//
// # Architecture
//
// Fablery has no end-user accounts. A single bcrypt hash in the environment
// guards the whole surface; a successful login mints a short-lived JWT whose
// token ID (jti) is mirrored into Redis so that logout can revoke it before
// its natural expiry.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/fablery/internal/platform/apperr"
	"github.com/taibuivan/fablery/internal/platform/constants"
	"github.com/taibuivan/fablery/internal/platform/sec"
	"github.com/taibuivan/fablery/pkg/uuid"
)

// TokenProvider defines the contract for minting and checking admin JWTs.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string carrying the given
	// token ID (jti) with the given lifetime.
	GenerateAccessToken(tokenID string, timeToLive time.Duration) (string, error)

	// VerifyToken checks the signature, issuer, and expiry of a JWT string.
	VerifyToken(tokenString string) (*sec.AdminClaims, error)
}

// Service implements the admin authentication and session use cases.
//
// # Review Process
//
// This service is the only authentication gate in the system. Any changes to
// the password comparison or session storage must be reviewed carefully.
type Service struct {
	passwordHash string
	tokens       TokenProvider
	sessions     *redis.Client
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(passwordHash string, tokens TokenProvider, sessions *redis.Client) *Service {
	return &Service{
		passwordHash: passwordHash,
		tokens:       tokens,
		sessions:     sessions,
	}
}

// Session represents a successfully established admin session.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

/*
Login verifies the shared admin password and issues a session token.

Parameters:
  - context: context.Context
  - password: string (plain-text credential from the login form)

Returns:
  - *Session: Signed JWT plus its expiry
  - error: [apperr.Unauthorized] if the password does not match

Flow:
 1. Compare against the bcrypt hash from the environment.
 2. Mint a JWT with a fresh jti.
 3. Mirror the jti into Redis so logout can revoke the token early.
*/
func (service *Service) Login(context context.Context, password string) (*Session, error) {
	// ── 1. Credential Verification ────────────────────────────────────────

	// Bcrypt comparison is constant-time; a generic error avoids leaking
	// whether the hash is configured at all.
	if !sec.CheckPasswordHash(password, service.passwordHash) {
		return nil, apperr.Unauthorized("Invalid admin password")
	}

	// ── 2. Token Issuance ─────────────────────────────────────────────────

	tokenID := uuid.New()
	accessToken, err := service.tokens.GenerateAccessToken(tokenID, constants.AdminSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("admin_service_token_generation_failed: %w", err)
	}

	// ── 3. Session Registration ───────────────────────────────────────────

	// The Redis entry is the revocation list: a token whose jti is absent
	// is treated as logged out even if its signature is still valid.
	sessionKey := constants.RedisPrefixAdminSession + tokenID
	if err := service.sessions.Set(context, sessionKey, "1", constants.AdminSessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("admin_service_session_store_failed: %w", err)
	}

	return &Session{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(constants.AdminSessionTTL),
	}, nil
}

// Logout revokes the session behind the given claims. Revoking an already
// absent session succeeds (idempotent operation).
func (service *Service) Logout(context context.Context, claims *sec.AdminClaims) error {
	if claims == nil {
		return nil
	}

	sessionKey := constants.RedisPrefixAdminSession + claims.ID
	if err := service.sessions.Del(context, sessionKey).Err(); err != nil {
		return fmt.Errorf("admin_service_logout_failed: %w", err)
	}

	return nil
}

/*
VerifyToken validates a bearer token and confirms its session is still live.

Parameters:
  - context: context.Context
  - tokenString: string (raw JWT from the Authorization header)

Returns:
  - *sec.AdminClaims: Verified claims when both signature and session hold
  - error: Any signature, expiry, or revocation failure

A token that passes signature verification but whose jti is missing from
Redis was logged out and is rejected.
*/
func (service *Service) VerifyToken(context context.Context, tokenString string) (*sec.AdminClaims, error) {
	claims, err := service.tokens.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	sessionKey := constants.RedisPrefixAdminSession + claims.ID
	exists, err := service.sessions.Exists(context, sessionKey).Result()
	if err != nil {
		return nil, fmt.Errorf("admin_service_session_check_failed: %w", err)
	}
	if exists == 0 {
		return nil, apperr.Unauthorized("Session revoked or expired")
	}

	return claims, nil
}
