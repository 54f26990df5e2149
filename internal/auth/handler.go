package auth

import (
	"encoding/json"
	"net/http"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/transport"
	"github.com/reliefops/duty-management/pkg/logger"
)

type ServiceAPI interface {
	SignUp(email, password, name string) (string, error)
	SignIn(dto LoginDTO) (*Credentials, error)
	SignOut(tokenString string) error
	GetSession(tokenString string) (*Session, error)
	UpdatePassword(userID string, dto UpdatePasswordDTO) error
	ResetPasswordForEmail(dto ResetPasswordDTO) error
	RedeemResetToken(dto RedeemResetDTO) error
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

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var dto SignUpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	userID, err := h.Service.SignUp(dto.Email, dto.Password, dto.Name)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]string{"user_id": userID})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creds, err := h.Service.SignIn(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, creds)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.Service.SignOut(token); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// GetSession mirrors the session probe a client runs on startup: a missing or
// dead session is a normal answer, not an error.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.GetSession(h.ExtractTokenFromHeader(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	var dto UpdatePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdatePassword(userID, dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPasswordForEmail(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset_requested"})
}

func (h *Handler) RedeemReset(w http.ResponseWriter, r *http.Request) {
	var dto RedeemResetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RedeemResetToken(dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}
