package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/app/audio"
)

// Config configures the whisper.cpp command line transcriber
type Config struct {
	BinaryPath    string
	ModelPath     string
	Language      string
	Prompt        string
	MaxConcurrent int
	TempDir       string
}

// prepareFunc turns an arbitrary audio file into the 16kHz mono WAV that
// whisper.cpp expects, writing any converted file into workDir.
type prepareFunc func(ctx context.Context, inputFilePath, workDir string) (string, error)

// LocalTranscriber runs a local whisper.cpp binary
type LocalTranscriber struct {
	config  Config
	prepare prepareFunc
	slots   chan struct{}
	logger  *zap.Logger
}

// NewLocalTranscriber creates a whisper.cpp transcriber
func NewLocalTranscriber(config Config, logger *zap.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "en"
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{
		config:  config,
		prepare: ensure16kHzWav,
		slots:   make(chan struct{}, config.MaxConcurrent),
		logger:  logger.Named("whisper_cpp"),
	}
}

func ensure16kHzWav(ctx context.Context, inputFilePath, workDir string) (string, error) {
	ok, err := audio.Is16kHzWavFile(ctx, inputFilePath)
	if err != nil {
		return "", fmt.Errorf("error checking input file: %w", err)
	}
	if ok {
		return inputFilePath, nil
	}
	return audio.ConvertTo16kHzWav(ctx, inputFilePath, workDir)
}

// TranscriptWithOptions converts the input if needed, runs whisper.cpp and
// returns the text it writes to its .txt output
func (lt *LocalTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	select {
	case lt.slots <- struct{}{}:
		defer func() { <-lt.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()

	workDir, err := os.MkdirTemp(lt.config.TempDir, "whisper_cpp_")
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:     "temp_dir_failed",
			Message:  fmt.Sprintf("failed to create working directory: %v", err),
			Provider: provider.NameWhisperCpp,
		}
	}
	defer os.RemoveAll(workDir)

	wavPath, err := lt.prepare(ctx, request.InputFilePath, workDir)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:     "audio_conversion_failed",
			Message:  err.Error(),
			Provider: provider.NameWhisperCpp,
			Suggestions: []string{
				"Check that ffmpeg is installed and on PATH",
			},
		}
	}

	language := lt.config.Language
	if request.Language != "" {
		language = request.Language
	}
	prompt := lt.config.Prompt
	if request.Prompt != "" {
		prompt = request.Prompt
	}

	outputBase := filepath.Join(workDir, "transcript")
	args := []string{"-m", lt.config.ModelPath, "-l", language}
	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	args = append(args, "-otxt", "-f", wavPath, "-of", outputBase)

	command := exec.CommandContext(ctx, lt.config.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("Running transcription command",
		zap.String("binary", lt.config.BinaryPath), zap.Strings("args", args))

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &provider.TranscriptionError{
			Code:      "command_failed",
			Message:   fmt.Sprintf("command execution error: %v, stderr: %s", err, strings.TrimSpace(stderr.String())),
			Provider:  provider.NameWhisperCpp,
			Retryable: true,
		}
	}

	output, err := os.ReadFile(outputBase + ".txt")
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:     "output_missing",
			Message:  fmt.Sprintf("failed to read output file: %v", err),
			Provider: provider.NameWhisperCpp,
		}
	}

	elapsed := time.Since(start)
	lt.logger.Info("Transcription finished",
		zap.String("file", filepath.Base(request.InputFilePath)), zap.Duration("elapsed", elapsed))

	return &provider.TranscriptionResponse{
		Text:           joinLines(string(output)),
		Language:       language,
		Duration:       request.AudioDuration,
		ModelUsed:      filepath.Base(lt.config.ModelPath),
		ProcessingTime: elapsed,
	}, nil
}

// joinLines collapses whisper.cpp's one-segment-per-line output
func joinLines(output string) string {
	lines := strings.Split(output, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// GetProviderInfo returns provider metadata
func (lt *LocalTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        provider.NameWhisperCpp,
		DisplayName: "Whisper.cpp (local)",
		Type:        provider.ProviderTypeLocal,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A, provider.FormatFLAC, provider.FormatOGG,
		},
		RequiresBinary: true,
		DefaultModel:   filepath.Base(lt.config.ModelPath),
	}
}

// ValidateConfiguration checks that the binary and model are set
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if lt.config.BinaryPath == "" {
		return fmt.Errorf("binary_path is required")
	}
	if lt.config.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	return nil
}

// HealthCheck verifies the binary and model exist on disk
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	if _, err := exec.LookPath(lt.config.BinaryPath); err != nil {
		return fmt.Errorf("whisper.cpp binary not found: %w", err)
	}
	if _, err := os.Stat(lt.config.ModelPath); err != nil {
		return fmt.Errorf("whisper.cpp model not found: %w", err)
	}
	return nil
}
