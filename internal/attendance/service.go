package attendance

import (
	"log/slog"
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/schedule"
)

// ScheduleGetter resolves the schedule an attendance record hangs off.
type ScheduleGetter interface {
	GetByID(id int64) (*schedule.Schedule, error)
}

type Service struct {
	repo      Repository
	schedules ScheduleGetter
	logger    *slog.Logger
}

func NewService(repo Repository, schedules ScheduleGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		logger:    logger,
	}
}

func (s *Service) ListAttendance(date *time.Time) ([]*Attendance, error) {
	records, err := s.repo.List(date)
	if err != nil {
		s.logger.Error("failed to list attendance", "error", err)
		return nil, err
	}
	return records, nil
}

// CheckIn records a present status with the current timestamp. The schedule
// must exist and belong to the person checking in; one record per
// (schedule, personnel) pair.
func (s *Service) CheckIn(scheduleID int64, personnelID string) (*Attendance, error) {
	if err := s.validateAssignment(scheduleID, personnelID); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySchedulePersonnel(scheduleID, personnelID); err == nil && existing != nil {
		s.logger.Warn("duplicate check-in attempt",
			"schedule_id", scheduleID,
			"personnel_id", personnelID,
			"attendance_id", existing.ID)
		return nil, ErrAlreadyCheckedIn
	}

	now := time.Now()
	record := &Attendance{
		ScheduleID:  scheduleID,
		PersonnelID: personnelID,
		CheckIn:     &now,
		Status:      StatusPresent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to record check-in", "error", err, "schedule_id", scheduleID)
		return nil, err
	}

	s.logger.Info("check-in recorded",
		"attendance_id", record.ID,
		"schedule_id", scheduleID,
		"personnel_id", personnelID)

	return record, nil
}

// CheckOut stamps the check-out time on an existing record. Meaningless
// without a prior check-in, so that is rejected.
func (s *Service) CheckOut(attendanceID int64) (*Attendance, error) {
	record, err := s.repo.GetByID(attendanceID)
	if err != nil {
		s.logger.Error("attendance not found for check-out", "error", err, "attendance_id", attendanceID)
		return nil, err
	}

	if record.CheckIn == nil {
		s.logger.Warn("check-out without check-in", "attendance_id", attendanceID)
		return nil, ErrNotCheckedIn
	}

	now := time.Now()
	record.CheckOut = &now
	record.UpdatedAt = now

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to record check-out", "error", err, "attendance_id", attendanceID)
		return nil, err
	}

	s.logger.Info("check-out recorded", "attendance_id", attendanceID)
	return record, nil
}

// MarkStatus records an outcome without the person present at a device:
// late, absent or excused. Marking present goes through the check-in path so
// the timestamp invariant holds.
func (s *Service) MarkStatus(scheduleID int64, personnelID string, status Status, notes string) (*Attendance, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status == StatusPresent {
		return s.CheckIn(scheduleID, personnelID)
	}

	if err := s.validateAssignment(scheduleID, personnelID); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySchedulePersonnel(scheduleID, personnelID); err == nil && existing != nil {
		return nil, ErrAlreadyRecorded
	}

	now := time.Now()
	record := &Attendance{
		ScheduleID:  scheduleID,
		PersonnelID: personnelID,
		Status:      status,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to mark attendance status", "error", err, "schedule_id", scheduleID)
		return nil, err
	}

	s.logger.Info("attendance status marked",
		"attendance_id", record.ID,
		"schedule_id", scheduleID,
		"status", status)

	return record, nil
}

func (s *Service) UpdateAttendance(id int64, status Status, notes string) (*Attendance, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("attendance not found for update", "error", err, "attendance_id", id)
		return nil, err
	}

	record.Status = status
	record.Notes = notes
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update attendance", "error", err, "attendance_id", id)
		return nil, err
	}

	return record, nil
}

// Summary holds the per-date counters shown above the attendance listing.
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
}

func (s *Service) Summarize(date *time.Time) (Summary, error) {
	records, err := s.repo.List(date)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: len(records)}
	for _, record := range records {
		switch record.Status {
		case StatusPresent:
			summary.Present++
		case StatusLate:
			summary.Late++
		case StatusAbsent:
			summary.Absent++
		case StatusExcused:
			summary.Excused++
		}
	}
	return summary, nil
}

func (s *Service) validateAssignment(scheduleID int64, personnelID string) error {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return err
	}
	if sched.PersonnelID != personnelID {
		s.logger.Warn("attendance for someone else's schedule rejected",
			"schedule_id", scheduleID,
			"personnel_id", personnelID,
			"schedule_personnel_id", sched.PersonnelID)
		return internal.NewValidationError("schedule is not assigned to this personnel", internal.ErrCodeValidationFailed)
	}
	return nil
}
