package service

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
)

// AuditLogService writes and queries the audit trail. Every mutating
// operation in the API ends up here, either via a handler or the audit
// middleware.
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo, logger: logger}
}

// LogEntry is the input for one audit record.
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	EntityName string
	TenantID   *domain.TenantID
	OldValues  interface{}
	NewValues  interface{}
	Metadata   map[string]interface{}
}

// Log persists an audit record, enriching it with the acting user from ctx
// and the client address from r. Both enrichments are optional; r may be nil
// for background work such as scheduled imports.
func (s *AuditLogService) Log(ctx context.Context, r *http.Request, entry LogEntry) error {
	record := &domain.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		EntityName:  entry.EntityName,
		TenantID:    entry.TenantID,
		PerformedAt: time.Now(),
		// jsonb columns need "null" rather than an empty string
		OldValues: marshalOrNull(entry.OldValues),
		NewValues: marshalOrNull(entry.NewValues),
		Changes:   "null",
		Metadata:  "null",
	}

	if entry.OldValues != nil && entry.NewValues != nil {
		record.Changes = marshalOrNull(fieldDiff(entry.OldValues, entry.NewValues))
	}
	if entry.Metadata != nil {
		record.Metadata = marshalOrNull(entry.Metadata)
	}

	if userCtx, ok := auth.FromContext(ctx); ok && userCtx != nil {
		record.UserID = userCtx.UserID
		record.UserEmail = userCtx.Email
		record.UserName = userCtx.DisplayName
	}
	if r != nil {
		record.IPAddress = requestIP(r)
		record.UserAgent = r.UserAgent()
		record.RequestID = r.Header.Get("X-Request-ID")
	}

	if err := s.auditRepo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
		return err
	}
	return nil
}

// LogCreate records a create operation.
func (s *AuditLogService) LogCreate(ctx context.Context, r *http.Request, entityType string, entityID uuid.UUID, entityName string, newValues interface{}, tenantID *domain.TenantID) error {
	return s.Log(ctx, r, LogEntry{
		Action:     domain.AuditActionCreate,
		EntityType: entityType,
		EntityID:   &entityID,
		EntityName: entityName,
		TenantID:   tenantID,
		NewValues:  newValues,
	})
}

// LogUpdate records an update with before and after values.
func (s *AuditLogService) LogUpdate(ctx context.Context, r *http.Request, entityType string, entityID uuid.UUID, entityName string, oldValues, newValues interface{}, tenantID *domain.TenantID) error {
	return s.Log(ctx, r, LogEntry{
		Action:     domain.AuditActionUpdate,
		EntityType: entityType,
		EntityID:   &entityID,
		EntityName: entityName,
		TenantID:   tenantID,
		OldValues:  oldValues,
		NewValues:  newValues,
	})
}

// LogDelete records a delete, keeping the last known values.
func (s *AuditLogService) LogDelete(ctx context.Context, r *http.Request, entityType string, entityID uuid.UUID, entityName string, oldValues interface{}, tenantID *domain.TenantID) error {
	return s.Log(ctx, r, LogEntry{
		Action:     domain.AuditActionDelete,
		EntityType: entityType,
		EntityID:   &entityID,
		EntityName: entityName,
		TenantID:   tenantID,
		OldValues:  oldValues,
	})
}

// LogExport records a data export with the row count and format.
func (s *AuditLogService) LogExport(ctx context.Context, r *http.Request, entityType string, count int, format string, tenantID *domain.TenantID) error {
	return s.Log(ctx, r, LogEntry{
		Action:     domain.AuditActionExport,
		EntityType: entityType,
		TenantID:   tenantID,
		Metadata:   map[string]interface{}{"count": count, "format": format},
	})
}

// LogImport records a completed import run, such as a POS sync.
func (s *AuditLogService) LogImport(ctx context.Context, entityType string, count int, source string, tenantID *domain.TenantID) error {
	return s.Log(ctx, nil, LogEntry{
		Action:     domain.AuditActionImport,
		EntityType: entityType,
		TenantID:   tenantID,
		Metadata:   map[string]interface{}{"count": count, "source": source},
	})
}

// AuditLogQueryParams filters and paginates audit queries.
type AuditLogQueryParams struct {
	UserID     string
	Action     *domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	TenantID   *domain.TenantID
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
}

func (s *AuditLogService) List(ctx context.Context, params AuditLogQueryParams) ([]domain.AuditLog, int64, error) {
	filter := &repository.AuditLogFilter{
		UserID:     params.UserID,
		Action:     params.Action,
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		TenantID:   params.TenantID,
		StartTime:  params.StartTime,
		EndTime:    params.EndTime,
	}
	return s.auditRepo.List(ctx, filter, params.Page, params.PageSize)
}

func (s *AuditLogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	return s.auditRepo.GetByID(ctx, id)
}

func (s *AuditLogService) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	return s.auditRepo.ListByEntity(ctx, entityType, entityID, limit)
}

func (s *AuditLogService) GetStats(ctx context.Context, start, end time.Time) (map[domain.AuditAction]int64, error) {
	return s.auditRepo.CountByAction(ctx, start, end)
}

// CleanupOldLogs purges records past the retention window. Runs from the
// scheduled retention job.
func (s *AuditLogService) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	before := time.Now().AddDate(0, 0, -retentionDays)
	count, err := s.auditRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		s.logger.Error("failed to cleanup old audit logs",
			zap.Int("retention_days", retentionDays),
			zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("cleaned up old audit logs",
			zap.Int64("deleted_count", count),
			zap.Int("retention_days", retentionDays))
	}
	return count, nil
}

func marshalOrNull(v interface{}) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// fieldDiff maps each field that differs to its old and new value. Fields
// present on only one side diff against nil.
func fieldDiff(oldValues, newValues interface{}) map[string]interface{} {
	oldMap := asMap(oldValues)
	newMap := asMap(newValues)

	changes := make(map[string]interface{})
	for key, newVal := range newMap {
		oldVal, exists := oldMap[key]
		if exists && reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		changes[key] = map[string]interface{}{"old": oldVal, "new": newVal}
	}
	for key, oldVal := range oldMap {
		if _, exists := newMap[key]; !exists {
			changes[key] = map[string]interface{}{"old": oldVal, "new": nil}
		}
	}
	return changes
}

// asMap flattens a value through JSON into a comparable map.
func asMap(v interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	if v == nil {
		return result
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	data, err := json.Marshal(v)
	if err != nil {
		return result
	}
	_ = json.Unmarshal(data, &result)
	return result
}

// requestIP resolves the originating client address, preferring proxy
// headers over the socket peer.
func requestIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
