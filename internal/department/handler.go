package department

import (
	"encoding/json"
	"net/http"

	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	ListDepartments() ([]*Department, error)
	CreateDepartment(name string) (*Department, error)
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

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, departments)
}

type createDepartmentDTO struct {
	Name string `json:"name"`
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto createDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.CreateDepartment(dto.Name)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, d)
}
