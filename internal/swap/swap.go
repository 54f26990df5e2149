package swap

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
)

// Status of a swap request. Pending is the only live state; approved and
// rejected are terminal and never reopened.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// SwapRequest is a proposal by one person to hand a schedule assignment to
// another, subject to admin approval.
type SwapRequest struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	RequesterID string    `json:"requester_id" gorm:"column:requester_id;not null"`
	TargetID    string    `json:"target_id" gorm:"column:target_id;not null"`
	ScheduleID  int64     `json:"schedule_id" gorm:"column:schedule_id;not null"`
	Status      Status    `json:"status" gorm:"column:status;not null;default:pending"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`

	Requester *personnel.Personnel `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Target    *personnel.Personnel `json:"target,omitempty" gorm:"foreignKey:TargetID"`
	Schedule  *schedule.Schedule   `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
}

func (SwapRequest) TableName() string {
	return "swap_requests"
}

type Repository interface {
	// List returns swap requests, newest first, optionally filtered by status.
	List(status *Status) ([]*SwapRequest, error)
	GetByID(id int64) (*SwapRequest, error)
	Create(req *SwapRequest) error
	// UpdateStatus writes the status unconditionally; guarding against
	// reopening a terminal request is the service's job.
	UpdateStatus(id int64, status Status) error
}

var (
	ErrNotFound   = internal.ErrSwapNotFound
	ErrNotPending = internal.ErrSwapNotPending
)
