package postgres

import (
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/department"
	"gorm.io/gorm"
)

// DepartmentRepository implements the department.Repository interface using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List() ([]*department.Department, error) {
	if r.db == nil {
		return []*department.Department{}, internal.ErrNotConfigured
	}

	var departments []*department.Department
	err := r.db.Order("name").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) Create(d *department.Department) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Create(d).Error
}
