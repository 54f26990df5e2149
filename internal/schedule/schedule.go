package schedule

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/personnel"
)

// Schedule is a single duty-time assignment: one person, one date, one time
// window. Schedules sharing a date and title are presented as one grouped
// event on the calendar.
type Schedule struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	PersonnelID string    `json:"personnel_id" gorm:"column:personnel_id;not null"`
	DutyDate    time.Time `json:"duty_date" gorm:"column:duty_date;type:date;not null"`
	StartTime   string    `json:"start_time" gorm:"column:start_time;not null"`
	EndTime     string    `json:"end_time" gorm:"column:end_time;not null"`
	Title       string    `json:"title,omitempty" gorm:"column:title"`
	Notes       string    `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`

	Personnel *personnel.Personnel `json:"personnel,omitempty" gorm:"foreignKey:PersonnelID"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Event is a calendar entry: every schedule on one date sharing one title.
// Untitled schedules stay as single-entry events.
type Event struct {
	DutyDate  time.Time   `json:"duty_date"`
	Title     string      `json:"title,omitempty"`
	Schedules []*Schedule `json:"schedules"`
}

type Repository interface {
	// List returns schedules inside the inclusive date range; a nil bound
	// leaves that side open. Ordered by duty date, then start time.
	List(start, end *time.Time) ([]*Schedule, error)
	ListByPersonnel(personnelID string) ([]*Schedule, error)
	GetByID(id int64) (*Schedule, error)
	Create(s *Schedule) error
	Update(s *Schedule) error
	// DeleteCascade removes attendance and swap-request rows referencing the
	// schedule before the schedule itself.
	DeleteCascade(id int64) error
}

var ErrNotFound = internal.ErrScheduleNotFound
