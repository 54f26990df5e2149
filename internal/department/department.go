package department

import (
	"time"

	"github.com/reliefops/duty-management/internal"
)

// Department groups personnel for filtering and display. Referenced by
// personnel rows through a nullable foreign key.
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Repository interface {
	List() ([]*Department, error)
	Create(d *Department) error
}

var ErrNotFound = internal.ErrDepartmentNotFound
