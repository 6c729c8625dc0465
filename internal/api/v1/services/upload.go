package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalUploadService keeps uploads in a directory under a random name that
// preserves the original extension
type LocalUploadService struct {
	dir    string
	logger *zap.Logger
}

// NewLocalUploadService uses dir, or the system temp dir when dir is empty
func NewLocalUploadService(dir string, logger *zap.Logger) (*LocalUploadService, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vat-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalUploadService{dir: dir, logger: logger.Named("uploads")}, nil
}

func (s *LocalUploadService) Save(header *multipart.FileHeader) (string, func(), error) {
	src, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove temporary upload", zap.String("path", path), zap.Error(err))
		}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return path, cleanup, nil
}
