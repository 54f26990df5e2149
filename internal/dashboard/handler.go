package dashboard

import (
	"net/http"
	"time"

	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	Stats(now time.Time) (*Stats, error)
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

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(time.Now())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
