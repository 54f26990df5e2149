package swap

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	ListSwapRequests(status *Status) ([]*SwapRequest, error)
	CreateSwapRequest(requesterID string, dto CreateSwapDTO) (*SwapRequest, error)
	Approve(id int64) (*SwapRequest, error)
	Reject(id int64) (*SwapRequest, error)
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

func (h *Handler) ListSwapRequests(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := Status(raw)
		if !st.Valid() {
			h.WriteError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		status = &st
	}

	requests, err := h.Service.ListSwapRequests(status)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	requesterID := internal.UserIDFromContext(r.Context())
	if requesterID == "" {
		h.WriteError(w, http.StatusUnauthorized, "no authenticated personnel")
		return
	}

	var dto CreateSwapDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateSwapRequest(requesterID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Reject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, fn func(int64) (*SwapRequest, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid swap request id")
		return
	}

	req, err := fn(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}
