package personnel

import (
	"time"

	"github.com/reliefops/duty-management/internal"
)

// Role is the closed set of personnel roles. The admin role is the only one
// carrying extra authorization weight; staff and volunteer differ only in
// presentation.
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Personnel is the identity record for a registered individual. Its ID is
// shared with the auth provider's user id when a login account exists; rows
// created without an account get a fresh id and are matched by email on
// sign-in instead.
type Personnel struct {
	ID            string     `json:"id" gorm:"primaryKey;column:id"`
	Name          string     `json:"name" gorm:"column:name;not null"`
	Email         *string    `json:"email,omitempty" gorm:"column:email"`
	Phone         string     `json:"phone,omitempty" gorm:"column:phone"`
	Role          Role       `json:"role" gorm:"column:role;not null"`
	DepartmentID  *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	IsActive      bool       `json:"is_active" gorm:"column:is_active;default:true"`
	LicenseType   *string    `json:"license_type,omitempty" gorm:"column:license_type"`
	LicenseExpiry *time.Time `json:"license_expiry,omitempty" gorm:"column:license_expiry"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`

	// DepartmentName is display-only, resolved by the repository. It is not a
	// column, so association joins against personnel select only real columns.
	DepartmentName string `json:"department_name,omitempty" gorm:"-"`
}

func (Personnel) TableName() string {
	return "personnel"
}

// Repository is the data-access contract for personnel rows. Reads return
// (nil, internal.ErrNotConfigured) when no store is wired; they never panic.
type Repository interface {
	List() ([]*Personnel, error)
	GetByID(id string) (*Personnel, error)
	GetByEmail(email string) (*Personnel, error)
	Create(p *Personnel) error
	Update(p *Personnel) error
	// DeleteCascade removes the row together with every schedule, attendance
	// and swap-request row that references it, dependents first.
	DeleteCascade(id string) error
}

var (
	ErrNotFound    = internal.ErrPersonnelNotFound
	ErrInvalidRole = internal.NewValidationError("role must be volunteer, staff or admin", internal.ErrCodeInvalidRole)
)
