package personnel

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreatePersonnelDTO is the admin-facing create payload. When CreateAccount
// is set and an email is present, a login account is provisioned first and
// the personnel row takes over the account's user id.
type CreatePersonnelDTO struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Role          string `json:"role" validate:"required,oneof=volunteer staff admin"`
	DepartmentID  *int64 `json:"department_id"`
	IsActive      *bool  `json:"is_active"`
	LicenseType   string `json:"license_type" validate:"omitempty,max=100"`
	LicenseExpiry string `json:"license_expiry" validate:"omitempty,datetime=2006-01-02"`
	CreateAccount bool   `json:"create_account"`
	Password      string `json:"password" validate:"omitempty,min=8"`
}

func (d CreatePersonnelDTO) Validate() error {
	return validate.Struct(d)
}

func (d CreatePersonnelDTO) LicenseExpiryTime() *time.Time {
	if d.LicenseExpiry == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", d.LicenseExpiry)
	if err != nil {
		return nil
	}
	return &t
}

// UpdatePersonnelDTO carries the editable fields. Account credentials are
// never updated through this path.
type UpdatePersonnelDTO struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Role          string `json:"role" validate:"required,oneof=volunteer staff admin"`
	DepartmentID  *int64 `json:"department_id"`
	IsActive      *bool  `json:"is_active"`
	LicenseType   string `json:"license_type" validate:"omitempty,max=100"`
	LicenseExpiry string `json:"license_expiry" validate:"omitempty,datetime=2006-01-02"`
}

func (d UpdatePersonnelDTO) Validate() error {
	return validate.Struct(d)
}

func (d UpdatePersonnelDTO) LicenseExpiryTime() *time.Time {
	if d.LicenseExpiry == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", d.LicenseExpiry)
	if err != nil {
		return nil
	}
	return &t
}
