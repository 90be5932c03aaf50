package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/store"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxExternalUserID
	ctxRole
)

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxUserID).(int64)
	return id
}

func externalUserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxExternalUserID).(string)
	return id
}

func roleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ctxRole).(string)
	return role
}

// requestLogger writes one structured line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				evt := logger.Info()
				if status >= http.StatusInternalServerError {
					evt = logger.Error()
				}
				evt.
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Str("remote_ip", r.RemoteAddr).
					Msg("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// JWTAuthMiddleware resolves the bearer token to a stored user. The role is
// read from the database so demotions take effect before the token expires.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			respondWithError(w, h.logger, fmt.Errorf("%w: bearer token required", apperrors.ErrUnauthorized))
			return
		}

		claims, err := h.tokens.ValidateJWT(tokenString)
		if err != nil {
			respondWithError(w, h.logger, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err))
			return
		}

		user, err := h.users.GetUserByExternalID(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = fmt.Errorf("%w: unknown user", apperrors.ErrUnauthorized)
			}
			respondWithError(w, h.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, user.ID)
		ctx = context.WithValue(ctx, ctxExternalUserID, user.ExternalUserID)
		ctx = context.WithValue(ctx, ctxRole, user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole lets the request through only for the listed roles.
func (h *APIHandler) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleFrom(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondWithError(w, h.logger, fmt.Errorf("%w: role %q", apperrors.ErrPermission, role))
		})
	}
}
