package attendance

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	ListAttendance(date *time.Time) ([]*Attendance, error)
	CheckIn(scheduleID int64, personnelID string) (*Attendance, error)
	CheckOut(attendanceID int64) (*Attendance, error)
	MarkStatus(scheduleID int64, personnelID string, status Status, notes string) (*Attendance, error)
	UpdateAttendance(id int64, status Status, notes string) (*Attendance, error)
	Summarize(date *time.Time) (Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func parseDateParam(r *http.Request) *time.Time {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListAttendance(parseDateParam(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summarize(parseDateParam(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

type checkInDTO struct {
	ScheduleID  int64  `json:"schedule_id"`
	PersonnelID string `json:"personnel_id"`
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var dto checkInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.CheckIn(dto.ScheduleID, dto.PersonnelID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}

	record, err := h.Service.CheckOut(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, record)
}

type markStatusDTO struct {
	ScheduleID  int64  `json:"schedule_id"`
	PersonnelID string `json:"personnel_id"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func (h *Handler) MarkStatus(w http.ResponseWriter, r *http.Request) {
	var dto markStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.MarkStatus(dto.ScheduleID, dto.PersonnelID, Status(dto.Status), dto.Notes)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, record)
}

type updateAttendanceDTO struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}

	var dto updateAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.UpdateAttendance(id, Status(dto.Status), dto.Notes)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, record)
}
