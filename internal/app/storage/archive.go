// Package storage archives finished transcripts to object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"voice-analysis-toolkit/internal/config"
)

// Archiver stores a transcript and returns its object key
type Archiver interface {
	ArchiveTranscript(ctx context.Context, sessionID, fileName, transcript string) (string, error)
}

// NoopArchiver is used when archiving is disabled
type NoopArchiver struct{}

func (NoopArchiver) ArchiveTranscript(context.Context, string, string, string) (string, error) {
	return "", nil
}

// objectStore is the part of *minio.Client the archive uses
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioArchiver writes transcripts as text objects into a bucket
type MinioArchiver struct {
	client objectStore
	bucket string
	now    func() time.Time
}

// NewMinioArchiver connects to MinIO and makes sure the bucket exists
func NewMinioArchiver(ctx context.Context, cfg config.ArchiveConfig) (*MinioArchiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return newMinioArchiver(ctx, client, cfg.Bucket)
}

func newMinioArchiver(ctx context.Context, client objectStore, bucket string) (*MinioArchiver, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return &MinioArchiver{client: client, bucket: bucket, now: time.Now}, nil
}

// ArchiveTranscript uploads transcript as <session>/<unix-ts>-<file>.txt
func (a *MinioArchiver) ArchiveTranscript(ctx context.Context, sessionID, fileName, transcript string) (string, error) {
	key := ObjectKey(sessionID, fileName, a.now())
	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(transcript), int64(len(transcript)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return key, nil
}

// ObjectKey builds the object name for a transcript
func ObjectKey(sessionID, fileName string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if base == "" || base == "." {
		base = "audio"
	}
	return fmt.Sprintf("%s/%d-%s.txt", sessionID, at.Unix(), base)
}
