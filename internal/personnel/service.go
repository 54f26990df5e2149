package personnel

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AccountProvisioner creates a login account for a new personnel row. The
// returned user id becomes the personnel id so that sign-in can resolve the
// profile by id without an email lookup.
type AccountProvisioner interface {
	SignUp(email, password, name string) (userID string, err error)
}

type Service struct {
	repo     Repository
	accounts AccountProvisioner
	logger   *slog.Logger
}

func NewService(repo Repository, accounts AccountProvisioner, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		logger:   logger,
	}
}

func (s *Service) ListPersonnel() ([]*Personnel, error) {
	people, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list personnel", "error", err)
		return nil, err
	}
	return people, nil
}

func (s *Service) GetPersonnel(id string) (*Personnel, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get personnel", "error", err, "personnel_id", id)
		return nil, err
	}
	return p, nil
}

// CreatePersonnel registers a new individual, optionally provisioning a login
// account first. Without an account the row gets a fresh id and is matched by
// email at sign-in time.
func (s *Service) CreatePersonnel(dto CreatePersonnelDTO) (*Personnel, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("personnel validation failed", "error", err)
		return nil, err
	}

	id := uuid.NewString()
	if dto.CreateAccount && dto.Email != "" && s.accounts != nil {
		userID, err := s.accounts.SignUp(dto.Email, dto.Password, dto.Name)
		if err != nil {
			s.logger.Error("failed to provision login account", "error", err, "email", dto.Email)
			return nil, err
		}
		id = userID
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	p := &Personnel{
		ID:            id,
		Name:          dto.Name,
		Phone:         dto.Phone,
		Role:          Role(dto.Role),
		DepartmentID:  dto.DepartmentID,
		IsActive:      isActive,
		LicenseExpiry: dto.LicenseExpiryTime(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if dto.Email != "" {
		email := dto.Email
		p.Email = &email
	}
	if dto.LicenseType != "" {
		lt := dto.LicenseType
		p.LicenseType = &lt
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create personnel", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("personnel created",
		"personnel_id", p.ID,
		"role", p.Role,
		"has_account", dto.CreateAccount && dto.Email != "")

	return p, nil
}

func (s *Service) UpdatePersonnel(id string, dto UpdatePersonnelDTO) (*Personnel, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("personnel validation failed", "error", err, "personnel_id", id)
		return nil, err
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("personnel not found for update", "error", err, "personnel_id", id)
		return nil, err
	}

	p.Name = dto.Name
	p.Phone = dto.Phone
	p.Role = Role(dto.Role)
	p.DepartmentID = dto.DepartmentID
	p.LicenseExpiry = dto.LicenseExpiryTime()
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}
	p.Email = nil
	if dto.Email != "" {
		email := dto.Email
		p.Email = &email
	}
	p.LicenseType = nil
	if dto.LicenseType != "" {
		lt := dto.LicenseType
		p.LicenseType = &lt
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update personnel", "error", err, "personnel_id", id)
		return nil, err
	}

	s.logger.Info("personnel updated", "personnel_id", id)
	return p, nil
}

// DeletePersonnel removes the row and every dependent record. Errors must
// reach the operator: a partially applied cascade leaves the parent row in
// place with its remaining dependents, which is recoverable by retrying, but
// only if the failure is reported.
func (s *Service) DeletePersonnel(id string) error {
	if err := s.repo.DeleteCascade(id); err != nil {
		s.logger.Error("cascade delete failed", "error", err, "personnel_id", id)
		return err
	}

	s.logger.Info("personnel deleted", "personnel_id", id)
	return nil
}
