package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService handles file uploads linked to clients: consent forms,
// meal plans, before/after photos.
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	clientRepo     *repository.ClientRepository
	storage        storage.Storage
	logger         *zap.Logger
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	clientRepo *repository.ClientRepository,
	storage storage.Storage,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		clientRepo:     clientRepo,
		storage:        storage,
		logger:         logger,
	}
}

// Upload stores a file and links it to a client
func (s *AttachmentService) Upload(ctx context.Context, clientID uuid.UUID, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	attachment := &domain.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		ClientID:    client.ID,
		TenantID:    client.TenantID,
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		attachment.UploadedBy = userCtx.DisplayName
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Best effort cleanup of the orphaned blob
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to cleanup file from storage after DB error",
				zap.Error(delErr),
				zap.String("storagePath", storagePath),
			)
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	dto := mapper.ToAttachmentDTO(attachment)
	return &dto, nil
}

// ListByClient returns a client's attachments, newest first
func (s *AttachmentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.AttachmentDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	attachments, err := s.attachmentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	dtos := make([]domain.AttachmentDTO, len(attachments))
	for i := range attachments {
		dtos[i] = mapper.ToAttachmentDTO(&attachments[i])
	}
	return dtos, nil
}

// Download retrieves an attachment's content
// Returns: reader, filename, content-type, error
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, string, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrAttachmentNotFound
		}
		return nil, "", "", fmt.Errorf("failed to get attachment: %w", err)
	}

	reader, err := s.storage.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to download attachment: %w", err)
	}

	return reader, attachment.Filename, attachment.ContentType, nil
}

// Delete removes an attachment from both storage and database
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to get attachment: %w", err)
	}

	// Delete from storage (log warning if fails, continue)
	if err := s.storage.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete attachment from storage",
			zap.Error(err),
			zap.String("storagePath", attachment.StoragePath),
			zap.String("attachmentID", id.String()),
		)
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment record: %w", err)
	}

	return nil
}
