package swap

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreateSwapDTO struct {
	TargetID   string `json:"target_id" validate:"required"`
	ScheduleID int64  `json:"schedule_id" validate:"required"`
}

func (d CreateSwapDTO) Validate() error {
	return validate.Struct(d)
}

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

func (s *Service) ListSwapRequests(status *Status) ([]*SwapRequest, error) {
	requests, err := s.repo.List(status)
	if err != nil {
		s.logger.Error("failed to list swap requests", "error", err)
		return nil, err
	}
	return requests, nil
}

func (s *Service) CreateSwapRequest(requesterID string, dto CreateSwapDTO) (*SwapRequest, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("swap request validation failed", "error", err)
		return nil, err
	}

	req := &SwapRequest{
		RequesterID: requesterID,
		TargetID:    dto.TargetID,
		ScheduleID:  dto.ScheduleID,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create swap request", "error", err, "requester_id", requesterID)
		return nil, err
	}

	s.logger.Info("swap request created",
		"swap_id", req.ID,
		"requester_id", requesterID,
		"target_id", dto.TargetID,
		"schedule_id", dto.ScheduleID)

	return req, nil
}

// Approve moves a pending request into its approved terminal state. Terminal
// requests are never reopened; the store-level write would accept it, so the
// guard lives here.
func (s *Service) Approve(id int64) (*SwapRequest, error) {
	return s.resolve(id, StatusApproved)
}

// Reject moves a pending request into its rejected terminal state.
func (s *Service) Reject(id int64) (*SwapRequest, error) {
	return s.resolve(id, StatusRejected)
}

func (s *Service) resolve(id int64, status Status) (*SwapRequest, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("swap request not found", "error", err, "swap_id", id)
		return nil, err
	}

	if req.Status != StatusPending {
		s.logger.Warn("refusing to resolve non-pending swap request",
			"swap_id", id,
			"current_status", req.Status,
			"requested_status", status)
		return nil, ErrNotPending
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		s.logger.Error("failed to update swap request status", "error", err, "swap_id", id)
		return nil, err
	}

	req.Status = status
	req.UpdatedAt = time.Now()

	s.logger.Info("swap request resolved", "swap_id", id, "status", status)
	return req, nil
}
