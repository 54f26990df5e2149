package swap_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/reliefops/duty-management/internal/swap"
)

func TestSwapService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swap Service Suite")
}

// MockRepository implements swap.Repository for testing
type MockRepository struct {
	requests map[int64]*swap.SwapRequest
	nextID   int64

	updateCalls int
	failUpdate  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{requests: make(map[int64]*swap.SwapRequest)}
}

func (m *MockRepository) List(status *swap.Status) ([]*swap.SwapRequest, error) {
	var result []*swap.SwapRequest
	for _, req := range m.requests {
		if status == nil || req.Status == *status {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByID(id int64) (*swap.SwapRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, swap.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *MockRepository) Create(req *swap.SwapRequest) error {
	m.nextID++
	req.ID = m.nextID
	m.requests[req.ID] = req
	return nil
}

func (m *MockRepository) UpdateStatus(id int64, status swap.Status) error {
	m.updateCalls++
	if m.failUpdate != nil {
		return m.failUpdate
	}
	req, ok := m.requests[id]
	if !ok {
		return swap.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return nil
}

var _ = Describe("Swap Service", func() {
	var (
		repo    *MockRepository
		service *swap.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = swap.NewService(repo, logger)
	})

	Describe("CreateSwapRequest", func() {
		It("creates a pending request for the requester", func() {
			req, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{
				TargetID:   "target-1",
				ScheduleID: 7,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(swap.StatusPending))
			Expect(req.RequesterID).To(Equal("requester-1"))
			Expect(req.ID).To(BeNumerically(">", 0))
		})

		It("rejects a request without a target", func() {
			_, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{
				ScheduleID: 7,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Approve", func() {
		var pendingID int64

		BeforeEach(func() {
			req, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{
				TargetID:   "target-1",
				ScheduleID: 7,
			})
			Expect(err).NotTo(HaveOccurred())
			pendingID = req.ID
		})

		It("moves a pending request to approved", func() {
			req, err := service.Approve(pendingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(swap.StatusApproved))

			stored, err := repo.GetByID(pendingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(swap.StatusApproved))
		})

		It("refuses to approve an already approved request", func() {
			_, err := service.Approve(pendingID)
			Expect(err).NotTo(HaveOccurred())
			callsAfterFirst := repo.updateCalls

			_, err = service.Approve(pendingID)
			Expect(err).To(Equal(swap.ErrNotPending))
			Expect(repo.updateCalls).To(Equal(callsAfterFirst), "terminal requests never reach the store again")
		})

		It("refuses to approve a rejected request", func() {
			_, err := service.Reject(pendingID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(pendingID)
			Expect(err).To(Equal(swap.ErrNotPending))
		})

		It("returns not found for an unknown request", func() {
			_, err := service.Approve(999)
			Expect(err).To(Equal(swap.ErrNotFound))
		})
	})

	Describe("Reject", func() {
		It("moves a pending request to rejected", func() {
			req, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{
				TargetID:   "target-1",
				ScheduleID: 7,
			})
			Expect(err).NotTo(HaveOccurred())

			rejected, err := service.Reject(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(swap.StatusRejected))
		})

		It("refuses to reject an approved request", func() {
			req, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{
				TargetID:   "target-1",
				ScheduleID: 7,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(req.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Reject(req.ID)
			Expect(err).To(Equal(swap.ErrNotPending))
		})
	})

	Describe("ListSwapRequests", func() {
		It("filters by status", func() {
			first, err := service.CreateSwapRequest("requester-1", swap.CreateSwapDTO{TargetID: "target-1", ScheduleID: 1})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateSwapRequest("requester-2", swap.CreateSwapDTO{TargetID: "target-2", ScheduleID: 2})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(first.ID)
			Expect(err).NotTo(HaveOccurred())

			pending := swap.StatusPending
			requests, err := service.ListSwapRequests(&pending)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].RequesterID).To(Equal("requester-2"))
		})
	})
})
