package postgres

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
	"gorm.io/gorm"
)

// ScheduleRepository implements the schedule.Repository interface using GORM
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) List(start, end *time.Time) ([]*schedule.Schedule, error) {
	if r.db == nil {
		return []*schedule.Schedule{}, internal.ErrNotConfigured
	}

	query := r.db.Joins("Personnel")
	if start != nil {
		query = query.Where("duty_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("duty_date <= ?", *end)
	}

	var schedules []*schedule.Schedule
	err := query.Order("duty_date").Order("start_time").Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) ListByPersonnel(personnelID string) ([]*schedule.Schedule, error) {
	if r.db == nil {
		return []*schedule.Schedule{}, internal.ErrNotConfigured
	}

	var schedules []*schedule.Schedule
	err := r.db.Where("personnel_id = ?", personnelID).
		Order("duty_date").
		Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) GetByID(id int64) (*schedule.Schedule, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var s schedule.Schedule
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, schedule.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) Create(s *schedule.Schedule) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Create(s).Error
}

func (r *ScheduleRepository) Update(s *schedule.Schedule) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

// DeleteCascade removes attendance first, then swap requests, then the
// schedule row. Same ordering rationale and degrade path as the personnel
// cascade: dependents before parent, no transaction, direct delete as the
// best-effort fallback.
func (r *ScheduleRepository) DeleteCascade(id int64) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}

	if err := r.deleteDependents(id); err != nil {
		return r.db.Where("id = ?", id).Delete(&schedule.Schedule{}).Error
	}

	return r.db.Where("id = ?", id).Delete(&schedule.Schedule{}).Error
}

func (r *ScheduleRepository) deleteDependents(id int64) error {
	if err := r.db.Where("schedule_id = ?", id).
		Delete(&attendance.Attendance{}).Error; err != nil {
		return err
	}
	return r.db.Where("schedule_id = ?", id).
		Delete(&swap.SwapRequest{}).Error
}
