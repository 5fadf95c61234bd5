package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/posimport"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
)

// ErrPOSNotAvailable indicates the POS database link is not configured or down
var ErrPOSNotAvailable = errors.New("pos database not available")

// POSSyncService imports checkout lines from the legacy POS database into
// the visit history. Imports are incremental and idempotent: each run picks
// up where the last one left off and re-fetched lines are skipped by their
// POS reference.
type POSSyncService struct {
	posClient *posimport.Client
	visitRepo *repository.VisitRepository
	auditLog  *AuditLogService
	logger    *zap.Logger
}

func NewPOSSyncService(
	posClient *posimport.Client,
	visitRepo *repository.VisitRepository,
	auditLog *AuditLogService,
	logger *zap.Logger,
) *POSSyncService {
	return &POSSyncService{
		posClient: posClient,
		visitRepo: visitRepo,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// SyncAll imports new checkout lines for every mapped studio. It returns the
// number of imported visits and the number of studios whose sync failed;
// one studio failing does not stop the others.
func (s *POSSyncService) SyncAll(ctx context.Context) (imported int, failed int, err error) {
	if s.posClient == nil || !s.posClient.IsEnabled() {
		return 0, 0, ErrPOSNotAvailable
	}

	for tenantID := range posimport.TenantMapping {
		count, syncErr := s.SyncTenant(ctx, tenantID)
		if syncErr != nil {
			s.logger.Error("pos sync failed for tenant",
				zap.String("tenant_id", string(tenantID)),
				zap.Error(syncErr))
			failed++
			continue
		}
		imported += count
	}

	return imported, failed, nil
}

// SyncTenant imports new checkout lines for one studio.
func (s *POSSyncService) SyncTenant(ctx context.Context, tenantID domain.TenantID) (int, error) {
	if s.posClient == nil || !s.posClient.IsEnabled() {
		return 0, ErrPOSNotAvailable
	}

	since, err := s.visitRepo.LatestImportedAt(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to determine sync lower bound: %w", err)
	}

	lines, err := s.posClient.FetchCheckoutLines(ctx, tenantID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch checkout lines: %w", err)
	}
	if len(lines) == 0 {
		return 0, nil
	}

	refs := make([]string, len(lines))
	for i, line := range lines {
		refs[i] = line.Ref
	}
	existing, err := s.visitRepo.ExistingPOSRefs(ctx, refs)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing refs: %w", err)
	}

	visits := make([]domain.Visit, 0, len(lines))
	for _, line := range lines {
		if line.Ref == "" || existing[line.Ref] {
			continue
		}
		visits = append(visits, s.toVisit(line, tenantID))
		existing[line.Ref] = true
	}

	if err := s.visitRepo.CreateBatch(ctx, visits); err != nil {
		return 0, fmt.Errorf("failed to store imported visits: %w", err)
	}

	s.logger.Info("pos sync completed for tenant",
		zap.String("tenant_id", string(tenantID)),
		zap.Int("fetched", len(lines)),
		zap.Int("imported", len(visits)),
		zap.Time("since", since))

	if s.auditLog != nil && len(visits) > 0 {
		tid := tenantID
		if logErr := s.auditLog.LogImport(ctx, "Visit", len(visits), "pos", &tid); logErr != nil {
			s.logger.Warn("failed to record pos import in audit log", zap.Error(logErr))
		}
	}

	return len(visits), nil
}

// toVisit maps a raw checkout line to a visit record. The calendar date is
// the UTC day the line occurred on.
func (s *POSSyncService) toVisit(line posimport.CheckoutLine, tenantID domain.TenantID) domain.Visit {
	occurredAt := line.OccurredAt.UTC()
	return domain.Visit{
		ClientName:  line.ClientName,
		Date:        occurredAt.Truncate(24 * time.Hour),
		OccurredAt:  occurredAt,
		ServiceName: line.ServiceName,
		Category:    domain.VisitCategory(line.Category),
		Amount:      line.Amount,
		StaffName:   line.StaffName,
		NPS:         line.NPS,
		IsNewClient: line.IsNewClient,
		Commission:  line.Commission,
		POSRef:      line.Ref,
		TenantID:    tenantID,
	}
}
