package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

// AuditConfig controls which requests the audit middleware records.
type AuditConfig struct {
	SkipPaths   []string
	SkipMethods []string
	// AuditReads additionally records GET requests. Off by default.
	AuditReads bool
}

func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths:   []string{"/health", "/health/db", "/health/ready", "/swagger"},
		SkipMethods: []string{http.MethodOptions, http.MethodHead},
	}
}

// AuditMiddleware records successful write requests in the audit trail.
// Handlers that log richer entries themselves (old values, field diffs) are
// not duplicated here; this is the catch-all for everything else.
type AuditMiddleware struct {
	auditService *service.AuditLogService
	config       *AuditConfig
	logger       *zap.Logger
}

func NewAuditMiddleware(auditService *service.AuditLogService, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{auditService: auditService, config: config, logger: logger}
}

// Audit records an audit entry once the wrapped handler reports success.
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		// The body is consumed here and replayed for the handler.
		var body []byte
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Logged off the request goroutine so the response is not delayed.
		go m.record(r, rec.status, body)
	})
}

func (m *AuditMiddleware) skip(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return true
		}
	}
	if r.Method == http.MethodGet && !m.config.AuditReads {
		return true
	}
	for _, prefix := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (m *AuditMiddleware) record(r *http.Request, status int, body []byte) {
	if m.auditService == nil {
		return
	}
	if status < 200 || status >= 300 {
		return
	}

	var action domain.AuditAction
	switch r.Method {
	case http.MethodPost:
		action = domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		action = domain.AuditActionUpdate
	case http.MethodDelete:
		action = domain.AuditActionDelete
	default:
		return
	}

	entityType, entityID := entityFromRoute(r)

	entry := service.LogEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		NewValues:  scrubbedBody(body),
	}
	if err := m.auditService.Log(r.Context(), r, entry); err != nil {
		m.logger.Warn("failed to create audit log entry",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err))
	}
}

// scrubbedBody parses the request body with credentials stripped.
// Non-JSON bodies are dropped rather than stored raw.
func scrubbedBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var parsed map[string]interface{}
	if json.Unmarshal(body, &parsed) != nil {
		return nil
	}
	for _, field := range []string{"password", "secret", "token", "apiKey"} {
		delete(parsed, field)
	}
	return parsed
}

var auditEntityNames = map[string]string{
	"clients":     "Client",
	"visits":      "Visit",
	"segments":    "Segment",
	"attachments": "Attachment",
	"tenants":     "Tenant",
	"users":       "User",
}

// entityFromRoute derives the entity type and id from the chi route.
func entityFromRoute(r *http.Request) (string, *uuid.UUID) {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return entityFromPath(r.URL.Path), nil
	}

	var entityID *uuid.UUID
	if idStr := routeCtx.URLParam("id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			entityID = &id
		}
	}
	return entityFromPath(routeCtx.RoutePattern()), entityID
}

func entityFromPath(path string) string {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if name, ok := auditEntityNames[part]; ok {
			return name
		}
	}
	return "Unknown"
}
