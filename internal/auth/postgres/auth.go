package postgres

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/auth"
	"gorm.io/gorm"
)

// AuthStore implements the auth.Store interface using GORM
type AuthStore struct {
	db *gorm.DB
}

func NewAuthStore(db *gorm.DB) auth.Store {
	return &AuthStore{db: db}
}

func (s *AuthStore) CreateUser(u *auth.User) error {
	if s.db == nil {
		return internal.ErrNotConfigured
	}
	return s.db.Create(u).Error
}

func (s *AuthStore) GetUserByEmail(email string) (*auth.User, error) {
	if s.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var u auth.User
	err := s.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

func (s *AuthStore) GetUserByID(id string) (*auth.User, error) {
	if s.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var u auth.User
	err := s.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

func (s *AuthStore) UpdateUserPassword(id, passwordHash string) error {
	if s.db == nil {
		return internal.ErrNotConfigured
	}
	return s.db.Model(&auth.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

func (s *AuthStore) CreateSession(sess *auth.Session) error {
	if s.db == nil {
		return internal.ErrNotConfigured
	}
	return s.db.Create(sess).Error
}

func (s *AuthStore) GetSession(id string) (*auth.Session, error) {
	if s.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var sess auth.Session
	err := s.db.Where("id = ?", id).First(&sess).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return &sess, nil
}

func (s *AuthStore) RevokeSession(id string) error {
	if s.db == nil {
		return internal.ErrNotConfigured
	}
	return s.db.Model(&auth.Session{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (s *AuthStore) CreateResetToken(t *auth.ResetToken) error {
	if s.db == nil {
		return internal.ErrNotConfigured
	}
	return s.db.Create(t).Error
}

func (s *AuthStore) ConsumeResetToken(token string) (*auth.ResetToken, error) {
	if s.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var t auth.ResetToken
	err := s.db.Where("token = ?", token).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrResetTokenInvalid
		}
		return nil, err
	}
	if t.Used || time.Now().After(t.ExpiresAt) {
		return nil, auth.ErrResetTokenInvalid
	}

	if err := s.db.Model(&auth.ResetToken{}).
		Where("token = ?", token).
		Update("used", true).Error; err != nil {
		return nil, err
	}
	t.Used = true
	return &t, nil
}
