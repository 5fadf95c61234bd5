package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientService owns the client directory: manual stubs, the computed
// profile list, and the CSV export.
type ClientService struct {
	clientRepo  *repository.ClientRepository
	visitRepo   *repository.VisitRepository
	segmentRepo *repository.SegmentRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	visitRepo *repository.VisitRepository,
	segmentRepo *repository.SegmentRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		visitRepo:   visitRepo,
		segmentRepo: segmentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// WithNow overrides the clock. Tests use this to pin "today".
func (s *ClientService) WithNow(now func() time.Time) *ClientService {
	s.now = now
	return s
}

// resolveTenant determines the tenant for a write. Users scoped to one studio
// always write there; owners must pick one explicitly.
func resolveTenant(ctx context.Context, requested domain.TenantID) (domain.TenantID, error) {
	if requested != "" && requested != domain.TenantAll {
		if !domain.IsValidTenantID(string(requested)) {
			return "", fmt.Errorf("%w: unknown tenant %q", ErrInvalidInput, requested)
		}
		userCtx, ok := auth.FromContext(ctx)
		if ok && !userCtx.CanAccessTenant(requested) {
			return "", ErrPermissionDenied
		}
		return requested, nil
	}

	if userCtx, ok := auth.FromContext(ctx); ok {
		if filter := userCtx.GetTenantFilter(); filter != nil {
			return *filter, nil
		}
	}
	return "", ErrTenantRequired
}

func (s *ClientService) Create(ctx context.Context, tenantID domain.TenantID, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	tenant, err := resolveTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// Phone numbers are the de-facto client identity at the front desk, so
	// duplicates within a studio are rejected.
	if _, err := s.clientRepo.GetByPhone(ctx, tenant, req.Phone); err == nil {
		return nil, ErrDuplicatePhone
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	client := &domain.Client{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
		TenantID: tenant,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("tenant_id", string(tenant)),
	)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if req.Phone != client.Phone {
		if _, err := s.clientRepo.GetByPhone(ctx, client.TenantID, req.Phone); err == nil {
			return nil, ErrDuplicatePhone
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
		}
	}

	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = req.Email
	client.Notes = req.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to get client: %w", err)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// Directory builds the computed client directory: profiles aggregated from
// the full visit history plus manual stubs, then filtered, sorted, and
// summarized according to the query.
func (s *ClientService) Directory(ctx context.Context, query analytics.Query) (*domain.DirectoryResponse, error) {
	profiles, customNames, err := s.buildProfiles(ctx)
	if err != nil {
		return nil, err
	}

	filtered := analytics.FilterProfiles(profiles, customNames, query)
	summary := analytics.Summarize(filtered)

	dtos := make([]domain.ClientProfileDTO, len(filtered))
	for i := range filtered {
		dtos[i] = mapper.ToClientProfileDTO(&filtered[i])
	}

	return &domain.DirectoryResponse{
		Clients: dtos,
		Summary: mapper.ToDirectorySummaryDTO(&summary),
	}, nil
}

// ExportCSV renders the filtered directory as a CSV document.
func (s *ClientService) ExportCSV(ctx context.Context, query analytics.Query) ([]byte, error) {
	profiles, customNames, err := s.buildProfiles(ctx)
	if err != nil {
		return nil, err
	}

	filtered := analytics.FilterProfiles(profiles, customNames, query)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Phone", "Email", "Total Spent", "Visits", "Avg Ticket", "Avg NPS", "Favorite Service", "Last Visit", "Segment", "Custom Segments"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range filtered {
		avgNps := ""
		if p.AvgNps != nil {
			avgNps = strconv.FormatFloat(*p.AvgNps, 'f', 1, 64)
		}
		row := []string{
			p.Name,
			p.Phone,
			p.Email,
			strconv.FormatFloat(p.TotalSpent, 'f', 2, 64),
			strconv.Itoa(p.VisitCount),
			strconv.FormatFloat(p.AvgSpent, 'f', 2, 64),
			avgNps,
			p.FavoriteService,
			p.LastVisit.Format("2006-01-02"),
			string(p.Segment),
			strings.Join(p.CustomSegments, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *ClientService) buildProfiles(ctx context.Context) ([]analytics.ClientProfile, []string, error) {
	visits, err := s.visitRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load visits: %w", err)
	}

	stubs, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}

	segments, err := s.segmentRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load segments: %w", err)
	}

	customNames := make([]string, len(segments))
	for i, seg := range segments {
		customNames[i] = seg.Name
	}

	profiles := analytics.BuildProfiles(visits, stubs, segments, s.now())
	return profiles, customNames, nil
}
