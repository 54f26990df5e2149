package dashboard_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/dashboard"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
)

func TestDashboardService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Service Suite")
}

type fakeSources struct {
	people    []*personnel.Personnel
	schedules []*schedule.Schedule
	swaps     []*swap.SwapRequest
	summary   attendance.Summary

	notConfigured bool
}

func (f *fakeSources) List() ([]*personnel.Personnel, error) {
	if f.notConfigured {
		return []*personnel.Personnel{}, internal.ErrNotConfigured
	}
	return f.people, nil
}

func (f *fakeSources) ListSchedules(start, end *time.Time) ([]*schedule.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeSources) ListSwaps(status *swap.Status) ([]*swap.SwapRequest, error) {
	var result []*swap.SwapRequest
	for _, req := range f.swaps {
		if status == nil || req.Status == *status {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeSources) Summarize(date *time.Time) (attendance.Summary, error) {
	if f.notConfigured {
		return attendance.Summary{}, internal.ErrNotConfigured
	}
	return f.summary, nil
}

// adapters to the service's single-method interfaces
type scheduleLister struct{ f *fakeSources }

func (a scheduleLister) List(start, end *time.Time) ([]*schedule.Schedule, error) {
	if a.f.notConfigured {
		return []*schedule.Schedule{}, internal.ErrNotConfigured
	}
	return a.f.ListSchedules(start, end)
}

type swapLister struct{ f *fakeSources }

func (a swapLister) List(status *swap.Status) ([]*swap.SwapRequest, error) {
	if a.f.notConfigured {
		return []*swap.SwapRequest{}, internal.ErrNotConfigured
	}
	return a.f.ListSwaps(status)
}

var _ = Describe("Dashboard Service", func() {
	var (
		sources *fakeSources
		service *dashboard.Service
	)

	newService := func() *dashboard.Service {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		return dashboard.NewService(sources, scheduleLister{sources}, swapLister{sources}, sources, logger)
	}

	BeforeEach(func() {
		sources = &fakeSources{
			people: []*personnel.Personnel{
				{ID: "p1", IsActive: true},
				{ID: "p2", IsActive: true},
				{ID: "p3", IsActive: false},
			},
			schedules: []*schedule.Schedule{{ID: 1}, {ID: 2}},
			swaps: []*swap.SwapRequest{
				{ID: 1, Status: swap.StatusPending},
				{ID: 2, Status: swap.StatusApproved},
			},
			summary: attendance.Summary{Total: 4, Present: 2, Late: 1, Absent: 1},
		}
		service = newService()
	})

	It("assembles the overview counts", func() {
		stats, err := service.Stats(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.TotalPersonnel).To(Equal(3))
		Expect(stats.ActivePersonnel).To(Equal(2))
		Expect(stats.TodayDuties).To(Equal(2))
		Expect(stats.PendingSwaps).To(Equal(1))
	})

	It("computes the attendance rate from present and late records", func() {
		stats, err := service.Stats(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.AttendanceRate).To(BeNumerically("==", 75.0))
	})

	It("reports a zero rate for a day without records", func() {
		sources.summary = attendance.Summary{}
		stats, err := service.Stats(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.AttendanceRate).To(BeZero())
	})

	It("degrades to zero counts without a configured store", func() {
		sources.notConfigured = true
		stats, err := service.Stats(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.TotalPersonnel).To(BeZero())
		Expect(stats.TodayDuties).To(BeZero())
		Expect(stats.PendingSwaps).To(BeZero())
		Expect(stats.AttendanceRate).To(BeZero())
	})
})
