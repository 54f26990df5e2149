package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/attendance"
	"github.com/reliefops/duty-management/internal/department"
	"github.com/reliefops/duty-management/internal/personnel"
	"github.com/reliefops/duty-management/internal/schedule"
	"github.com/reliefops/duty-management/internal/swap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSwapRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SwapRepository Suite")
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	Expect(err).NotTo(HaveOccurred())

	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&department.Department{},
		&personnel.Personnel{},
		&schedule.Schedule{},
		&attendance.Attendance{},
		&swap.SwapRequest{},
	)
	Expect(err).NotTo(HaveOccurred())

	return db
}

var _ = Describe("SwapRepository", func() {
	var (
		db        *gorm.DB
		repo      swap.Repository
		requester *personnel.Personnel
		target    *personnel.Personnel
		duty      *schedule.Schedule
	)

	newPerson := func(name string) *personnel.Personnel {
		p := &personnel.Personnel{
			ID:        uuid.NewString(),
			Name:      name,
			Role:      personnel.RoleVolunteer,
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		Expect(db.Create(p).Error).To(Succeed())
		return p
	}

	newRequest := func(status swap.Status, created time.Time) *swap.SwapRequest {
		req := &swap.SwapRequest{
			RequesterID: requester.ID,
			TargetID:    target.ID,
			ScheduleID:  duty.ID,
			Status:      status,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		Expect(repo.Create(req)).To(Succeed())
		return req
	}

	BeforeEach(func() {
		db = openTestDB()
		repo = NewSwapRepository(db)

		requester = newPerson("joko")
		target = newPerson("kania")

		duty = &schedule.Schedule{
			PersonnelID: requester.ID,
			DutyDate:    time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
			StartTime:   "08:00",
			EndTime:     "16:00",
			Title:       "Day Watch",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		Expect(db.Create(duty).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("List", func() {
		It("returns newest first with both parties and the schedule attached", func() {
			newRequest(swap.StatusApproved, time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC))
			latest := newRequest(swap.StatusPending, time.Date(2025, 8, 21, 9, 0, 0, 0, time.UTC))

			requests, err := repo.List(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(2))
			Expect(requests[0].ID).To(Equal(latest.ID))

			Expect(requests[0].Requester).NotTo(BeNil())
			Expect(requests[0].Requester.Name).To(Equal("joko"))
			Expect(requests[0].Target).NotTo(BeNil())
			Expect(requests[0].Target.Name).To(Equal("kania"))
			Expect(requests[0].Schedule).NotTo(BeNil())
			Expect(requests[0].Schedule.Title).To(Equal("Day Watch"))
		})

		It("filters by status", func() {
			newRequest(swap.StatusApproved, time.Now())
			pending := newRequest(swap.StatusPending, time.Now())

			status := swap.StatusPending
			requests, err := repo.List(&status)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].ID).To(Equal(pending.ID))
		})
	})

	Describe("GetByID", func() {
		It("reports not found for an unknown id", func() {
			_, err := repo.GetByID(99)
			Expect(err).To(Equal(swap.ErrNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		It("persists the new status", func() {
			req := newRequest(swap.StatusPending, time.Now())

			Expect(repo.UpdateStatus(req.ID, swap.StatusRejected)).To(Succeed())

			reloaded, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Status).To(Equal(swap.StatusRejected))
		})
	})

	Describe("degraded mode", func() {
		It("reads come back empty with a configuration error", func() {
			degraded := NewSwapRepository(nil)

			requests, err := degraded.List(nil)
			Expect(requests).To(BeEmpty())
			Expect(err).To(Equal(internal.ErrNotConfigured))
		})
	})
})
