package dashboard

import (
	"log/slog"
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
)

// Stats is the overview block rendered on the landing page: headline counts
// plus today's attendance breakdown.
type Stats struct {
	TotalPersonnel  int                `json:"total_personnel"`
	ActivePersonnel int                `json:"active_personnel"`
	TodayDuties     int                `json:"today_duties"`
	PendingSwaps    int                `json:"pending_swaps"`
	Attendance      attendance.Summary `json:"attendance"`
	AttendanceRate  float64            `json:"attendance_rate"`
}

type PersonnelLister interface {
	List() ([]*personnel.Personnel, error)
}

type ScheduleLister interface {
	List(start, end *time.Time) ([]*schedule.Schedule, error)
}

type SwapLister interface {
	List(status *swap.Status) ([]*swap.SwapRequest, error)
}

type AttendanceSummarizer interface {
	Summarize(date *time.Time) (attendance.Summary, error)
}

type Service struct {
	personnel  PersonnelLister
	schedules  ScheduleLister
	swaps      SwapLister
	attendance AttendanceSummarizer
	logger     *slog.Logger
}

func NewService(p PersonnelLister, sch ScheduleLister, sw SwapLister, att AttendanceSummarizer, logger *slog.Logger) *Service {
	return &Service{
		personnel:  p,
		schedules:  sch,
		swaps:      sw,
		attendance: att,
		logger:     logger,
	}
}

// Stats assembles the overview for the given day (today for callers passing
// time.Now()). An unconfigured store contributes zero counts instead of
// failing the whole overview.
func (s *Service) Stats(now time.Time) (*Stats, error) {
	stats := &Stats{}

	people, err := s.personnel.List()
	if err != nil && !isNotConfigured(err) {
		return nil, err
	}
	stats.TotalPersonnel = len(people)
	for _, p := range people {
		if p.IsActive {
			stats.ActivePersonnel++
		}
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	duties, err := s.schedules.List(&day, &day)
	if err != nil && !isNotConfigured(err) {
		return nil, err
	}
	stats.TodayDuties = len(duties)

	pending := swap.StatusPending
	swaps, err := s.swaps.List(&pending)
	if err != nil && !isNotConfigured(err) {
		return nil, err
	}
	stats.PendingSwaps = len(swaps)

	summary, err := s.attendance.Summarize(&day)
	if err != nil && !isNotConfigured(err) {
		return nil, err
	}
	stats.Attendance = summary
	if summary.Total > 0 {
		stats.AttendanceRate = float64(summary.Present+summary.Late) / float64(summary.Total) * 100
	}

	return stats, nil
}

func isNotConfigured(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr == internal.ErrNotConfigured
}
