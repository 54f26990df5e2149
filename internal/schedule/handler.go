package schedule

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
	ListSchedules(start, end *time.Time) ([]*Schedule, error)
	ListByPersonnel(personnelID string) ([]*Schedule, error)
	GetSchedule(id int64) (*Schedule, error)
	CreateSchedule(dto CreateScheduleDTO) (*Schedule, error)
	UpdateSchedule(id int64, dto UpdateScheduleDTO) (*Schedule, error)
	DeleteSchedule(id int64) error
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

func parseDateParam(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// ListSchedules handles GET /schedules?start=YYYY-MM-DD&end=YYYY-MM-DD.
// With grouped=true the listing is folded into calendar events.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	start := parseDateParam(r, "start")
	end := parseDateParam(r, "end")

	schedules, err := h.Service.ListSchedules(start, end)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	if r.URL.Query().Get("grouped") == "true" {
		h.WriteJSON(w, http.StatusOK, GroupByEvent(schedules))
		return
	}
	h.WriteJSON(w, http.StatusOK, schedules)
}

func (h *Handler) ListByPersonnel(w http.ResponseWriter, r *http.Request) {
	personnelID := chi.URLParam(r, "personnelID")
	schedules, err := h.Service.ListByPersonnel(personnelID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, schedules)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	sched, err := h.Service.GetSchedule(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var dto CreateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.CreateSchedule(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sched)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	var dto UpdateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.UpdateSchedule(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	if err := h.Service.DeleteSchedule(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
