package personnel

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	ListPersonnel() ([]*Personnel, error)
	GetPersonnel(id string) (*Personnel, error)
	CreatePersonnel(dto CreatePersonnelDTO) (*Personnel, error)
	UpdatePersonnel(id string, dto UpdatePersonnelDTO) (*Personnel, error)
	DeletePersonnel(id string) error
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

func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	people, err := h.Service.ListPersonnel()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, people)
}

func (h *Handler) GetPersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.Service.GetPersonnel(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreatePersonnel(w http.ResponseWriter, r *http.Request) {
	var dto CreatePersonnelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreatePersonnel(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdatePersonnelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdatePersonnel(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeletePersonnel(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
