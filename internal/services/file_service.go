// file: internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const achievementImageFolder = "achievements"

// validImageExtensions lists the extensions accepted for achievement assets
var validImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// FileServiceConfig holds upload limits and credentials for the file service
type FileServiceConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	MaxFileSize   int64
	UploadTimeout time.Duration
	DeleteTimeout time.Duration
	MaxRetries    int
}

// DefaultFileServiceConfig returns the default upload limits
func DefaultFileServiceConfig() FileServiceConfig {
	return FileServiceConfig{
		MaxFileSize:   5 * 1024 * 1024,
		UploadTimeout: 30 * time.Second,
		DeleteTimeout: 10 * time.Second,
		MaxRetries:    3,
	}
}

// fileService uploads achievement display assets to Cloudinary.
// Only image types are accepted; anything else is rejected before upload.
type fileService struct {
	client *cloudinary.Cloudinary
	config FileServiceConfig
	logger *zap.Logger
}

// NewFileService creates a new Cloudinary-backed file service
func NewFileService(config FileServiceConfig, logger *zap.Logger) (FileService, error) {
	if config.CloudName == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are missing")
	}

	client, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	defaults := DefaultFileServiceConfig()
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = defaults.MaxFileSize
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = defaults.UploadTimeout
	}
	if config.DeleteTimeout <= 0 {
		config.DeleteTimeout = defaults.DeleteTimeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}

	return &fileService{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// UploadAchievementImage validates and uploads an image asset, retrying
// transient upload failures with exponential backoff.
func (s *fileService) UploadAchievementImage(ctx context.Context, file *multipart.FileHeader) (*UploadedFile, error) {
	if err := s.validateImage(file); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return nil, WrapInternalError("unable to open uploaded file", err)
	}
	defer src.Close()

	params := uploader.UploadParams{
		Folder:         achievementImageFolder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "image",
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		var opErr error
		result, opErr = s.client.Upload.Upload(ctx, src, params)
		return opErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.config.UploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(b, uint64(s.config.MaxRetries)),
		func(err error, d time.Duration) {
			s.logger.Warn("Upload attempt failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
				zap.Duration("backoff", d))
		},
	)
	if err != nil {
		return nil, WrapInternalError("failed to upload image", err)
	}

	s.logger.Info("Achievement image uploaded",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.String("public_id", result.PublicID),
	)

	return &UploadedFile{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     result.Bytes,
	}, nil
}

// DeleteAchievementImage removes an uploaded asset by its public ID
func (s *fileService) DeleteAchievementImage(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return NewValidationError("public id is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.DeleteTimeout)
	defer cancel()

	if _, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return WrapInternalError("failed to delete image", err)
	}

	s.logger.Info("Achievement image deleted", zap.String("public_id", publicID))
	return nil
}

// validateImage checks the size, sniffed content type and extension
func (s *fileService) validateImage(file *multipart.FileHeader) error {
	if file == nil {
		return NewValidationError("file is required", nil)
	}
	if file.Size > s.config.MaxFileSize {
		return NewValidationError(
			fmt.Sprintf("file size %d exceeds limit of %d bytes", file.Size, s.config.MaxFileSize), nil)
	}

	src, err := file.Open()
	if err != nil {
		return WrapInternalError("unable to open uploaded file", err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return WrapInternalError("unable to read uploaded file", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	// SVG sniffs as text/xml or text/plain; fall back to the extension check.
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "text/") {
		return NewValidationError("only image uploads are accepted, got "+contentType, nil)
	}

	ext := strings.ToLower(extensionOf(file.Filename))
	for _, valid := range validImageExtensions {
		if ext == valid {
			return nil
		}
	}
	return NewValidationError(ext+" is not a valid image extension", nil)
}

func extensionOf(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		return filename[idx:]
	}
	return ""
}

func ptrBool(b bool) *bool {
	return &b
}
