package attendance

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
)

// Status is the recorded outcome for a person against one schedule.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// Attendance is one record per (schedule, personnel) check-in attempt. Rows
// are created by check-in or status marking and only ever removed by the
// personnel/schedule cascades; there is no direct delete.
type Attendance struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	ScheduleID  int64      `json:"schedule_id" gorm:"column:schedule_id;not null"`
	PersonnelID string     `json:"personnel_id" gorm:"column:personnel_id;not null"`
	CheckIn     *time.Time `json:"check_in,omitempty" gorm:"column:check_in"`
	CheckOut    *time.Time `json:"check_out,omitempty" gorm:"column:check_out"`
	Status      Status     `json:"status" gorm:"column:status;not null"`
	Notes       string     `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`

	Personnel *personnel.Personnel `json:"personnel,omitempty" gorm:"foreignKey:PersonnelID"`
	Schedule  *schedule.Schedule   `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
}

func (Attendance) TableName() string {
	return "attendance"
}

type Repository interface {
	// List returns attendance records, newest first, optionally narrowed to
	// schedules on one duty date.
	List(date *time.Time) ([]*Attendance, error)
	GetByID(id int64) (*Attendance, error)
	GetBySchedulePersonnel(scheduleID int64, personnelID string) (*Attendance, error)
	Create(a *Attendance) error
	Update(a *Attendance) error
}

var (
	ErrNotFound         = internal.ErrAttendanceNotFound
	ErrAlreadyCheckedIn = internal.NewConflictError("already checked in for this schedule", internal.ErrCodeAlreadyCheckedIn)
	ErrAlreadyRecorded  = internal.NewConflictError("attendance already recorded for this schedule", internal.ErrCodeAlreadyRecorded)
	ErrNotCheckedIn     = internal.NewValidationError("cannot check out before checking in", internal.ErrCodeNotCheckedIn)
	ErrInvalidStatus    = internal.NewValidationError("status must be present, late, absent or excused", internal.ErrCodeInvalidStatus)
)
