package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// Service is the auth provider. It owns accounts, sessions and tokens, and
// publishes signed-in / signed-out events on the bus so the session gate can
// track auth state without being called directly.
type Service struct {
	store      Store
	tokens     TokenGenerator
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
	sessionTTL time.Duration
}

func NewService(store Store, tokens TokenGenerator, bus *events.EventBus, cfg internal.SecurityConfig, logger *slog.Logger) *Service {
	cost := cfg.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ttl := cfg.SessionDuration
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		store:      store,
		tokens:     tokens,
		bus:        bus,
		logger:     logger,
		bcryptCost: cost,
		sessionTTL: ttl,
	}
}

// Configured reports whether the provider has a backing store and a token
// secret. When false every operation degrades with ErrNotConfigured.
func (s *Service) Configured() bool {
	return s.store != nil && s.tokens != nil
}

// SignUp provisions a login account and returns its id. Also satisfies the
// personnel service's account provisioner, so admin-created personnel with
// login enabled share the account id.
func (s *Service) SignUp(email, password, name string) (string, error) {
	if !s.Configured() {
		return "", internal.ErrNotConfigured
	}

	if existing, err := s.store.GetUserByEmail(email); err == nil && existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return "", err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(user); err != nil {
		s.logger.Error("failed to create auth user", "error", err, "email", email)
		return "", err
	}

	s.logger.Info("auth user created", "user_id", user.ID, "email", email)
	return user.ID, nil
}

// SignIn verifies credentials, opens a session and mints an access token
// bound to it.
func (s *Service) SignIn(dto LoginDTO) (*Credentials, error) {
	if !s.Configured() {
		return nil, internal.ErrNotConfigured
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(dto.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.sessionTTL),
		Email:     user.Email,
	}
	if err := s.store.CreateSession(session); err != nil {
		s.logger.Error("failed to create session", "error", err, "user_id", user.ID)
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, session.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", "user_id", user.ID, "session_id", session.ID)
	s.publish(EventSignedIn, user.ID, user.Email)

	return &Credentials{AccessToken: token, Session: session}, nil
}

// SignOut revokes the session behind the token. Signing out of an already
// expired session is not an error.
func (s *Service) SignOut(tokenString string) error {
	if !s.Configured() {
		return internal.ErrNotConfigured
	}

	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		if err == ErrTokenExpired {
			return nil
		}
		return err
	}

	if err := s.store.RevokeSession(claims.SessionID); err != nil {
		s.logger.Error("failed to revoke session", "error", err, "session_id", claims.SessionID)
		return err
	}

	s.logger.Info("user signed out", "user_id", claims.UserID, "session_id", claims.SessionID)
	s.publish(EventSignedOut, claims.UserID, claims.Email)
	return nil
}

// GetSession resolves a token into its live session. No token, an invalid
// token, or a revoked or expired session all mean "no session" rather than an
// error; callers decide whether that is acceptable.
func (s *Service) GetSession(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, nil
	}
	if !s.Configured() {
		return nil, internal.ErrNotConfigured
	}

	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, nil
	}

	session, err := s.store.GetSession(claims.SessionID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr == internal.ErrNotConfigured {
			return nil, err
		}
		return nil, nil
	}
	if session.Revoked || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}

	session.Email = claims.Email
	return session, nil
}

// UpdatePassword sets a new password for an authenticated user.
func (s *Service) UpdatePassword(userID string, dto UpdatePasswordDTO) error {
	if !s.Configured() {
		return internal.ErrNotConfigured
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := s.hashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password updated", "user_id", userID)
	return nil
}

// ResetPasswordForEmail issues a single-use reset token. Unknown emails
// succeed silently so the endpoint cannot be used to probe for accounts.
func (s *Service) ResetPasswordForEmail(dto ResetPasswordDTO) error {
	if !s.Configured() {
		return internal.ErrNotConfigured
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(dto.Email)
	if err != nil {
		s.logger.Info("password reset requested for unknown email", "email", dto.Email)
		return nil
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return err
	}
	reset := &ResetToken{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.store.CreateResetToken(reset); err != nil {
		s.logger.Error("failed to store reset token", "error", err, "user_id", user.ID)
		return err
	}

	// TODO: deliver the token by email once an outbound mail relay is set up;
	// for now operators read it from the log.
	s.logger.Info("password reset token issued", "user_id", user.ID, "token", token)
	return nil
}

// RedeemResetToken consumes a reset token and sets the new password.
func (s *Service) RedeemResetToken(dto RedeemResetDTO) error {
	if !s.Configured() {
		return internal.ErrNotConfigured
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	reset, err := s.store.ConsumeResetToken(dto.Token)
	if err != nil {
		return err
	}

	hash, err := s.hashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(reset.UserID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", reset.UserID)
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) publish(eventType, userID, email string) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(context.Background(), NewAuthEvent(eventType, userID, email))
}

// GenerateRandomToken generates a cryptographically secure random token.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// NewJWTTokenGenerator creates a token generator signing with HMAC-SHA256.
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
	}
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, email, sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
