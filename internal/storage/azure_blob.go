package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"
)

// AzureBlobStorage stores attachments as blobs in one container.
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

func NewAzureBlobStorage(connectionString, container string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	// Idempotent: an existing container is fine.
	_, err = client.CreateContainer(context.Background(), container, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized", zap.String("container", container))

	return &AzureBlobStorage{
		client:    client,
		container: container,
		logger:    logger,
	}, nil
}

func (s *AzureBlobStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	blobName := newStoredName(filename)

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}

	// The SDK does not report the uploaded size, so count bytes on the way in.
	counted := &countingReader{r: data}
	if _, err := s.client.UploadStream(ctx, s.container, blobName, counted, opts); err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("blob_name", blobName),
		zap.String("content_type", contentType),
		zap.Int64("size", counted.count))

	return blobName, counted.count, nil
}

func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, storagePath, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("attachment deleted", zap.String("blob_name", storagePath))
	return nil
}

type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}
