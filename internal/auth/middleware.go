package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/config"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       string
	adminRole    string
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		apiKey:       cfg.ApiKey.Value,
		adminRole:    cfg.Auth.AdminRole,
		logger:       logger,
	}
}

// Authenticate accepts either the admin API key or a Bearer access token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, err := m.authenticate(r)
		if err != nil {
			m.logger.Warn("authentication failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.String("auth_type", userCtx.AuthType),
			zap.String("user_id", userCtx.UserID),
		)
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireAdmin ensures the authenticated operator holds the admin role.
// API key requests always pass.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusForbidden, "forbidden", "Forbidden", "no user context")
			return
		}
		if userCtx.AuthType != "api_key" && m.adminRole != "" && !userCtx.HasRole(m.adminRole) {
			writeAuthError(w, http.StatusForbidden, "forbidden", "Forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the caller from the x-api-key header, the
// Authorization header, or an access_token query parameter (websocket clients
// cannot set headers)
func (m *Middleware) authenticate(r *http.Request) (*UserContext, error) {
	if key := r.Header.Get("x-api-key"); key != "" {
		if !m.validateAPIKey(key) {
			return nil, errInvalidAPIKey
		}
		return &UserContext{UserID: SystemUserID, Email: "system@cleanclearsd.com", AuthType: "api_key"}, nil
	}

	token := r.URL.Query().Get("access_token")
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, errBadAuthHeader
		}
		token = parts[1]
	}
	if token == "" {
		return nil, errMissingAuth
	}
	return m.jwtValidator.ValidateToken(token)
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errInvalidAPIKey authError = "invalid API key"
	errBadAuthHeader authError = "invalid authorization header format"
	errMissingAuth   authError = "missing authorization header"
)

func writeAuthError(w http.ResponseWriter, status int, errType, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"type":   errType,
		"title":  title,
		"status": status,
		"detail": detail,
	})
}
