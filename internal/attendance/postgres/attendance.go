package postgres

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"gorm.io/gorm"
)

// AttendanceRepository implements the attendance.Repository interface using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) List(date *time.Time) ([]*attendance.Attendance, error) {
	if r.db == nil {
		return []*attendance.Attendance{}, internal.ErrNotConfigured
	}

	query := r.db.Joins("Personnel").Joins("Schedule")
	if date != nil {
		query = query.Where("\"Schedule\".duty_date = ?", *date)
	}

	var records []*attendance.Attendance
	err := query.Order("attendance.created_at DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) GetByID(id int64) (*attendance.Attendance, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var a attendance.Attendance
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, attendance.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) GetBySchedulePersonnel(scheduleID int64, personnelID string) (*attendance.Attendance, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var a attendance.Attendance
	err := r.db.Where("schedule_id = ? AND personnel_id = ?", scheduleID, personnelID).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, attendance.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) Create(a *attendance.Attendance) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Create(a).Error
}

func (r *AttendanceRepository) Update(a *attendance.Attendance) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	a.UpdatedAt = time.Now()
	return r.db.Save(a).Error
}
