package schedule

import (
	"log/slog"
	"time"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListSchedules(start, end *time.Time) ([]*Schedule, error) {
	schedules, err := s.repo.List(start, end)
	if err != nil {
		s.logger.Error("failed to list schedules", "error", err)
		return nil, err
	}
	return schedules, nil
}

func (s *Service) ListByPersonnel(personnelID string) ([]*Schedule, error) {
	schedules, err := s.repo.ListByPersonnel(personnelID)
	if err != nil {
		s.logger.Error("failed to list personnel schedules", "error", err, "personnel_id", personnelID)
		return nil, err
	}
	return schedules, nil
}

func (s *Service) GetSchedule(id int64) (*Schedule, error) {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get schedule", "error", err, "schedule_id", id)
		return nil, err
	}
	return sched, nil
}

func (s *Service) CreateSchedule(dto CreateScheduleDTO) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err)
		return nil, err
	}

	sched := &Schedule{
		PersonnelID: dto.PersonnelID,
		DutyDate:    dto.DutyDateTime(),
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
		Title:       dto.Title,
		Notes:       dto.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(sched); err != nil {
		s.logger.Error("failed to create schedule", "error", err, "personnel_id", dto.PersonnelID)
		return nil, err
	}

	s.logger.Info("schedule created",
		"schedule_id", sched.ID,
		"personnel_id", sched.PersonnelID,
		"duty_date", dto.DutyDate)

	return sched, nil
}

func (s *Service) UpdateSchedule(id int64, dto UpdateScheduleDTO) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err, "schedule_id", id)
		return nil, err
	}

	sched, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("schedule not found for update", "error", err, "schedule_id", id)
		return nil, err
	}

	sched.PersonnelID = dto.PersonnelID
	sched.DutyDate = dto.DutyDateTime()
	sched.StartTime = dto.StartTime
	sched.EndTime = dto.EndTime
	sched.Title = dto.Title
	sched.Notes = dto.Notes
	sched.UpdatedAt = time.Now()

	if err := s.repo.Update(sched); err != nil {
		s.logger.Error("failed to update schedule", "error", err, "schedule_id", id)
		return nil, err
	}

	s.logger.Info("schedule updated", "schedule_id", id)
	return sched, nil
}

// DeleteSchedule removes the schedule and its dependent attendance and swap
// rows. Failures are returned to the caller, never swallowed.
func (s *Service) DeleteSchedule(id int64) error {
	if err := s.repo.DeleteCascade(id); err != nil {
		s.logger.Error("schedule cascade delete failed", "error", err, "schedule_id", id)
		return err
	}

	s.logger.Info("schedule deleted", "schedule_id", id)
	return nil
}

// GroupByEvent folds an ordered schedule listing into calendar entries. Rows
// sharing a duty date and a non-empty title collapse into one event; untitled
// rows stay separate. First-seen order is preserved, which keeps the listing's
// date/start-time ordering.
func GroupByEvent(schedules []*Schedule) []*Event {
	var events []*Event
	index := make(map[string]*Event)

	for _, sched := range schedules {
		if sched.Title == "" {
			events = append(events, &Event{
				DutyDate:  sched.DutyDate,
				Schedules: []*Schedule{sched},
			})
			continue
		}

		key := sched.DutyDate.Format("2006-01-02") + "|" + sched.Title
		if ev, ok := index[key]; ok {
			ev.Schedules = append(ev.Schedules, sched)
			continue
		}

		ev := &Event{
			DutyDate:  sched.DutyDate,
			Title:     sched.Title,
			Schedules: []*Schedule{sched},
		}
		index[key] = ev
		events = append(events, ev)
	}

	return events
}
