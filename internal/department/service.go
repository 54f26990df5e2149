package department

import (
	"log/slog"
	"strings"
	"time"

	"github.com/reliefops/duty-management/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListDepartments() ([]*Department, error) {
	departments, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, err
	}
	return departments, nil
}

func (s *Service) CreateDepartment(name string) (*Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, internal.NewValidationError("department name is required", internal.ErrCodeValidationFailed)
	}

	d := &Department{
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(d); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("department created", "department_id", d.ID, "name", d.Name)
	return d, nil
}
