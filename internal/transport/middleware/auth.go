package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/auth"
	"github.com/reliefops/duty-management/internal/gate"
	"github.com/reliefops/duty-management/pkg/logger"
)

// SessionValidator is the slice of the auth service the middleware needs.
type SessionValidator interface {
	GetSession(tokenString string) (*auth.Session, error)
	SignOut(tokenString string) error
}

// Auth resolves the bearer token into a session and a personnel profile and
// puts the profile's id and role on the request context. A session whose
// profile is missing or inactive is revoked on the spot: the caller is not
// just denied this request, their session is gone.
func Auth(sessions SessionValidator, resolver *gate.Resolver, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			session, err := sessions.GetSession(token)
			if err != nil {
				writeAppError(w, err)
				return
			}
			if session == nil {
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			profile, err := resolver.Resolve(session.UserID, session.Email)
			if err != nil {
				if appErr, ok := internal.IsAppError(err); ok &&
					(appErr == internal.ErrProfileMissing || appErr == internal.ErrProfileInactive) {
					lg.Warn("revoking session with unusable profile",
						"user_id", session.UserID,
						"session_id", session.ID,
						"cause", appErr.Code)
					if signOutErr := sessions.SignOut(token); signOutErr != nil {
						lg.Error("failed to revoke denied session", "error", signOutErr, "session_id", session.ID)
					}
				}
				writeAppError(w, err)
				return
			}

			ctx := internal.ContextWithUserID(r.Context(), profile.ID)
			ctx = internal.ContextWithRole(ctx, string(profile.Role))
			ctx = logger.With(ctx, "userID", profile.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a subtree on the admin role. Must sit inside Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if internal.RoleFromContext(r.Context()) != "admin" {
			writeAppError(w, internal.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
