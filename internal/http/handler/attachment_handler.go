package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	maxUploadMB       int64
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, maxUploadMB int64, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		maxUploadMB:       maxUploadMB,
		logger:            logger,
	}
}

// Upload godoc
// @Summary Upload client attachment
// @Description Attach a file (meal plan, consent form, before/after photo) to a client record
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.AttachmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id}/attachments [post]
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(r.Context(), clientID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("failed to upload attachment", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to upload attachment")
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// ListByClient godoc
// @Summary List client attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {array} domain.AttachmentDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /clients/{id}/attachments [get]
func (h *AttachmentHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	attachments, err := h.attachmentService.ListByClient(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("failed to list attachments", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list attachments")
		return
	}

	respondJSON(w, http.StatusOK, attachments)
}

// Download godoc
// @Summary Download attachment
// @Tags Attachments
// @Produce application/octet-stream
// @Param id path string true "Attachment ID" format(uuid)
// @Success 200
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	reader, filename, contentType, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			respondWithError(w, http.StatusNotFound, "Attachment not found")
			return
		}
		h.logger.Error("failed to download attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to download attachment")
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete attachment
// @Tags Attachments
// @Produce json
// @Param id path string true "Attachment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			respondWithError(w, http.StatusNotFound, "Attachment not found")
			return
		}
		h.logger.Error("failed to delete attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
