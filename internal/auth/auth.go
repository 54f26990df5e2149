package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/core/events"
)

// User is a login account. Accounts are provisioned either through the
// public sign-up endpoint or by an admin creating a personnel record with
// login enabled; in the latter case the personnel row shares this id.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"column:name"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "auth_users"
}

// Session is a server-side login session. Access tokens carry the session id,
// so revoking the row here kills every token minted for it; sign-out is real,
// not just client-side token disposal.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	UserID    string    `json:"user_id" gorm:"column:user_id;not null"`
	Revoked   bool      `json:"-" gorm:"column:revoked;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at"`

	// Email is resolved from the token claims, not stored on the row.
	Email string `json:"email" gorm:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// ResetToken is a single-use password reset credential.
type ResetToken struct {
	Token     string    `json:"-" gorm:"primaryKey;column:token"`
	UserID    string    `json:"user_id" gorm:"column:user_id;not null"`
	Used      bool      `json:"-" gorm:"column:used;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at"`
}

func (ResetToken) TableName() string {
	return "password_reset_tokens"
}

// Credentials is what a successful sign-in hands back to the client.
type Credentials struct {
	AccessToken string   `json:"access_token"`
	Session     *Session `json:"session"`
}

// Claims are the JWT claims carried by every access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenGenerator mints and validates access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email, sessionID string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Store is the persistence contract for accounts, sessions and reset tokens.
// Every method returns internal.ErrNotConfigured when no database is wired.
type Store interface {
	CreateUser(u *User) error
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)
	UpdateUserPassword(id, passwordHash string) error

	CreateSession(s *Session) error
	GetSession(id string) (*Session, error)
	RevokeSession(id string) error

	CreateResetToken(t *ResetToken) error
	// ConsumeResetToken marks the token used and returns it; a token that is
	// missing, already used or expired yields ErrResetTokenInvalid.
	ConsumeResetToken(token string) (*ResetToken, error)
}

// Event types published on the in-process bus whenever auth state changes.
// The session gate subscribes to both.
const (
	EventSignedIn  = "auth.signed_in"
	EventSignedOut = "auth.signed_out"
)

func NewAuthEvent(eventType, userID, email string) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
		},
	}
}

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrInvalidToken       = internal.ErrInvalidToken
	ErrTokenExpired       = internal.ErrTokenExpired
	ErrEmailTaken         = internal.ErrEmailTaken
	ErrResetTokenInvalid  = internal.ErrResetTokenInvalid
)
