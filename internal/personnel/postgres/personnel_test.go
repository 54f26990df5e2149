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

func TestPersonnelRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PersonnelRepository Suite")
}

// openTestDB gives each spec a fresh SQLite database with foreign keys
// enforced, so a delete that would orphan dependents fails the same way the
// production store rejects it.
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

func newPerson(name string) *personnel.Personnel {
	email := name + "@mail.com"
	return &personnel.Personnel{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     &email,
		Role:      personnel.RoleVolunteer,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

var _ = Describe("PersonnelRepository", func() {
	var (
		db   *gorm.DB
		repo personnel.Repository
	)

	BeforeEach(func() {
		db = openTestDB()
		repo = NewPersonnelRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and GetByID", func() {
		It("round-trips a personnel row", func() {
			p := newPerson("andi")
			Expect(repo.Create(p)).To(Succeed())

			got, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("andi"))
			Expect(got.IsActive).To(BeTrue())
		})

		It("returns not found for an unknown id", func() {
			_, err := repo.GetByID(uuid.NewString())
			Expect(err).To(Equal(personnel.ErrNotFound))
		})
	})

	Describe("GetByEmail", func() {
		It("finds a person by email", func() {
			p := newPerson("budi")
			Expect(repo.Create(p)).To(Succeed())

			got, err := repo.GetByEmail("budi@mail.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(p.ID))
		})
	})

	Describe("List", func() {
		It("orders by name and resolves the department name", func() {
			dept := &department.Department{Name: "Medical", CreatedAt: time.Now()}
			Expect(db.Create(dept).Error).To(Succeed())

			citra := newPerson("citra")
			citra.DepartmentID = &dept.ID
			Expect(repo.Create(citra)).To(Succeed())
			Expect(repo.Create(newPerson("andi"))).To(Succeed())

			people, err := repo.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(people).To(HaveLen(2))
			Expect(people[0].Name).To(Equal("andi"))
			Expect(people[1].DepartmentName).To(Equal("Medical"))
		})
	})

	Describe("DeleteCascade", func() {
		var (
			requester *personnel.Personnel
			target    *personnel.Personnel
			duty      *schedule.Schedule
		)

		BeforeEach(func() {
			requester = newPerson("dewi")
			target = newPerson("eko")
			Expect(repo.Create(requester)).To(Succeed())
			Expect(repo.Create(target)).To(Succeed())

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

			checkIn := time.Now()
			Expect(db.Create(&attendance.Attendance{
				ScheduleID:  duty.ID,
				PersonnelID: requester.ID,
				CheckIn:     &checkIn,
				Status:      attendance.StatusPresent,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}).Error).To(Succeed())

			Expect(db.Create(&swap.SwapRequest{
				RequesterID: requester.ID,
				TargetID:    target.ID,
				ScheduleID:  duty.ID,
				Status:      swap.StatusPending,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}).Error).To(Succeed())
		})

		It("cannot delete the parent row directly while dependents exist", func() {
			err := db.Where("id = ?", requester.ID).Delete(&personnel.Personnel{}).Error
			Expect(err).To(HaveOccurred())
		})

		It("removes the person and every dependent row", func() {
			Expect(repo.DeleteCascade(requester.ID)).To(Succeed())

			_, err := repo.GetByID(requester.ID)
			Expect(err).To(Equal(personnel.ErrNotFound))

			var count int64
			Expect(db.Model(&schedule.Schedule{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
			Expect(db.Model(&attendance.Attendance{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
			Expect(db.Model(&swap.SwapRequest{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("leaves unrelated people untouched", func() {
			Expect(repo.DeleteCascade(requester.ID)).To(Succeed())

			got, err := repo.GetByID(target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("eko"))
		})

		It("removes a person who is only the target of swap requests", func() {
			Expect(repo.DeleteCascade(target.ID)).To(Succeed())

			var count int64
			Expect(db.Model(&swap.SwapRequest{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())

			// requester keeps their schedule and attendance
			Expect(db.Model(&schedule.Schedule{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
			Expect(db.Model(&attendance.Attendance{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("degraded mode", func() {
		It("reads come back empty with a configuration error", func() {
			degraded := NewPersonnelRepository(nil)

			people, err := degraded.List()
			Expect(people).To(BeEmpty())
			Expect(err).To(Equal(internal.ErrNotConfigured))
		})

		It("writes fail with a configuration error", func() {
			degraded := NewPersonnelRepository(nil)
			Expect(degraded.Create(newPerson("fina"))).To(Equal(internal.ErrNotConfigured))
			Expect(degraded.DeleteCascade(uuid.NewString())).To(Equal(internal.ErrNotConfigured))
		})
	})
})
