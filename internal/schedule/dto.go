package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreateScheduleDTO struct {
	PersonnelID string `json:"personnel_id" validate:"required"`
	DutyDate    string `json:"duty_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

func (d CreateScheduleDTO) Validate() error {
	return validate.Struct(d)
}

func (d CreateScheduleDTO) DutyDateTime() time.Time {
	t, _ := time.Parse("2006-01-02", d.DutyDate)
	return t
}

type UpdateScheduleDTO struct {
	PersonnelID string `json:"personnel_id" validate:"required"`
	DutyDate    string `json:"duty_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

func (d UpdateScheduleDTO) Validate() error {
	return validate.Struct(d)
}

func (d UpdateScheduleDTO) DutyDateTime() time.Time {
	t, _ := time.Parse("2006-01-02", d.DutyDate)
	return t
}
