package department_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reliefops/duty-management/internal/department"
)

func TestDepartmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Service Suite")
}

// MockRepository implements department.Repository for testing
type MockRepository struct {
	departments []*department.Department
	nextID      int64
}

func (m *MockRepository) List() ([]*department.Department, error) {
	return m.departments, nil
}

func (m *MockRepository) Create(d *department.Department) error {
	m.nextID++
	d.ID = m.nextID
	m.departments = append(m.departments, d)
	return nil
}

var _ = Describe("Department Service", func() {
	var (
		repo    *MockRepository
		service *department.Service
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = department.NewService(repo, logger)
	})

	Describe("CreateDepartment", func() {
		It("creates a department with a trimmed name", func() {
			d, err := service.CreateDepartment("  Logistics  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Name).To(Equal("Logistics"))
			Expect(d.ID).To(BeNumerically(">", 0))
		})

		It("rejects an empty name", func() {
			_, err := service.CreateDepartment("   ")
			Expect(err).To(HaveOccurred())
			Expect(repo.departments).To(BeEmpty())
		})
	})

	Describe("ListDepartments", func() {
		It("returns everything in the store", func() {
			_, err := service.CreateDepartment("Medical")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateDepartment("Operations")
			Expect(err).NotTo(HaveOccurred())

			departments, err := service.ListDepartments()
			Expect(err).NotTo(HaveOccurred())
			Expect(departments).To(HaveLen(2))
		})
	})
})
