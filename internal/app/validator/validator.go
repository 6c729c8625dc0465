package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/audio"
	apperrors "voice-analysis-toolkit/internal/app/errors"
)

// Limits are the upload rules enforced before transcription
type Limits struct {
	MaxFileSizeMB     int
	MaxFileLengthMins int
	AllowedExtensions []string
}

// AudioInfo is what validation learned about an accepted file
type AudioInfo struct {
	Path     string
	Size     int64
	Duration time.Duration
}

// Validator checks uploaded audio files against the configured limits
type Validator struct {
	limits Limits
	prober audio.Prober
	logger *zap.Logger
}

// New creates a validator. A nil prober defaults to ffprobe.
func New(limits Limits, prober audio.Prober, logger *zap.Logger) *Validator {
	if prober == nil {
		prober = audio.NewFFProbe()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{limits: limits, prober: prober, logger: logger}
}

// ValidateAudioFile checks existence, extension, size and duration, in that
// order, and stops at the first failure.
func (v *Validator) ValidateAudioFile(ctx context.Context, filePath string) (*AudioInfo, error) {
	log := v.logger.With(zap.String("file", filePath))
	log.Info("Initiating validation")

	stat, err := os.Stat(filePath)
	if err != nil || stat.IsDir() {
		log.Error("Validation failed: file not found")
		return nil, apperrors.Validation(fmt.Sprintf("File not found at path: %s", filePath))
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if !lo.Contains(v.limits.AllowedExtensions, ext) {
		log.Warn("Validation failed: invalid file type", zap.String("extension", ext))
		return nil, apperrors.InvalidFileType(fmt.Sprintf("Invalid file type. Allowed types are: %s",
			strings.Join(v.limits.AllowedExtensions, ", ")))
	}

	sizeMB := float64(stat.Size()) / (1024 * 1024)
	if sizeMB > float64(v.limits.MaxFileSizeMB) {
		log.Warn("Validation failed: file too large", zap.Float64("size_mb", sizeMB))
		return nil, apperrors.FileSizeExceeded(fmt.Sprintf("File size of %.2fMB exceeds the %dMB limit.",
			sizeMB, v.limits.MaxFileSizeMB))
	}

	duration, err := v.prober.Duration(ctx, filePath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("Validation failed: could not decode audio", zap.Error(err))
		return nil, apperrors.Validation("Failed to read audio file. It may be corrupted or in an unsupported format despite the file extension.")
	}

	durationMins := duration.Minutes()
	if durationMins > float64(v.limits.MaxFileLengthMins) {
		log.Warn("Validation failed: audio too long", zap.Float64("duration_mins", durationMins))
		return nil, apperrors.FileLengthExceeded(fmt.Sprintf("Audio duration of %.2f minutes exceeds the %d minute limit.",
			durationMins, v.limits.MaxFileLengthMins))
	}

	log.Info("Validation successful", zap.Duration("duration", duration))
	return &AudioInfo{Path: filePath, Size: stat.Size(), Duration: duration}, nil
}
