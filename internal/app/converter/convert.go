// Package converter transcribes batches of audio files from the command line.
package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository"
	"voice-analysis-toolkit/internal/app/transcription"
	"voice-analysis-toolkit/internal/app/validator"
)

type FileValidator interface {
	ValidateAudioFile(ctx context.Context, path string) (*validator.AudioInfo, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, path string, duration time.Duration) (*transcription.Result, error)
}

// Options controls a batch run
type Options struct {
	// OutDir receives one .txt per input. Empty means no files are written
	// unless WriteNextToInput is set.
	OutDir           string
	WriteNextToInput bool
	Parallel         int
}

// Result is the outcome for one input file. Results keep the input order.
type Result struct {
	Path       string
	Transcript string
	OutputPath string
	Provider   string
	Err        error
}

type Converter struct {
	validator   FileValidator
	transcriber Transcriber
	history     repository.HistoryRepository
	progress    *ProgressManager
	logger      *zap.Logger
}

func NewConverter(v FileValidator, t Transcriber, history repository.HistoryRepository, progress ProgressConfig, logger *zap.Logger) *Converter {
	if history == nil {
		history = repository.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		validator:   v,
		transcriber: t,
		history:     history,
		progress:    NewProgressManager(progress),
		logger:      logger.Named("converter"),
	}
}

func (c *Converter) Close() error {
	c.progress.Shutdown()
	return nil
}

// ConvertFiles validates and transcribes every file. A failing file does not
// stop the batch; its error is reported in its Result.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]Result, len(paths))
	bar := c.progress.NewBatchBar(len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Parallel)

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result{Path: path, Err: ctx.Err()}
				bar.Finish(true, 0)
				return
			}
			bar.Start(filepath.Base(path))
			start := time.Now()
			results[i] = c.convertFile(ctx, path, opts)
			<-sem
			bar.Finish(results[i].Err != nil, time.Since(start))
		}(i, path)
	}
	wg.Wait()
	bar.Wait()
	if n := bar.Failed(); n > 0 {
		c.logger.Warn("Batch finished with failures", zap.Int("failed", n), zap.Int("total", len(paths)))
	}

	return results, nil
}

func (c *Converter) convertFile(ctx context.Context, path string, opts Options) Result {
	result := Result{Path: path}
	fileName := filepath.Base(path)
	log := c.logger.With(zap.String("file", fileName))

	info, err := c.validator.ValidateAudioFile(ctx, path)
	if err != nil {
		log.Warn("Skipping invalid file", zap.Error(err))
		result.Err = err
		return result
	}

	rec := &model.TranscriptionRecord{
		SessionID:     "cli",
		FileName:      fileName,
		FileSize:      info.Size,
		AudioDuration: info.Duration.Seconds(),
	}

	transcript, err := c.transcriber.Transcribe(ctx, path, info.Duration)
	if err != nil {
		log.Error("Transcription failed", zap.Error(err))
		rec.HasError = true
		rec.ErrorMessage = apperrors.UserMessage(err)
		c.record(ctx, rec)
		result.Err = err
		return result
	}

	result.Transcript = transcript.Text
	result.Provider = transcript.Provider
	rec.Provider = transcript.Provider
	rec.Model = transcript.Model
	rec.Transcript = transcript.Text
	c.record(ctx, rec)

	if out := OutputPath(path, opts); out != "" {
		if err := os.WriteFile(out, []byte(transcript.Text+"\n"), 0o644); err != nil {
			result.Err = fmt.Errorf("failed to write transcript: %w", err)
			return result
		}
		result.OutputPath = out
	}
	log.Info("Transcription completed", zap.String("provider", transcript.Provider))
	return result
}

func (c *Converter) record(ctx context.Context, rec *model.TranscriptionRecord) {
	if err := c.history.RecordTranscription(ctx, rec); err != nil {
		c.logger.Warn("Failed to record transcription history", zap.Error(err))
	}
}

// OutputPath returns where the transcript of input is written, or "" when
// opts asks for no output files.
func OutputPath(input string, opts Options) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".txt"
	switch {
	case opts.OutDir != "":
		return filepath.Join(opts.OutDir, base)
	case opts.WriteNextToInput:
		return filepath.Join(filepath.Dir(input), base)
	default:
		return ""
	}
}
