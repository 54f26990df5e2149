package gate

import (
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/personnel"
)

// ProfileStore is the slice of the personnel repository the gate needs to
// turn an authenticated identity into a personnel profile.
type ProfileStore interface {
	GetByID(id string) (*personnel.Personnel, error)
	GetByEmail(email string) (*personnel.Personnel, error)
}

// Resolver maps an authenticated identity onto its personnel profile. The
// lookup is by account id first; accounts provisioned before their personnel
// row existed fall back to an email match.
type Resolver struct {
	profiles ProfileStore
}

func NewResolver(profiles ProfileStore) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve returns the active profile for the identity, or one of
// internal.ErrProfileMissing / internal.ErrProfileInactive when the identity
// must not be admitted. Store configuration errors pass through unchanged.
func (r *Resolver) Resolve(id, email string) (*personnel.Personnel, error) {
	profile, err := r.profiles.GetByID(id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr == internal.ErrNotConfigured {
			return nil, err
		}
		if email == "" {
			return nil, internal.ErrProfileMissing
		}
		profile, err = r.profiles.GetByEmail(email)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr == internal.ErrNotConfigured {
				return nil, err
			}
			return nil, internal.ErrProfileMissing
		}
	}

	if !profile.IsActive {
		return nil, internal.ErrProfileInactive
	}
	return profile, nil
}
