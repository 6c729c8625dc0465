package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"voice-analysis-toolkit/internal/app/model"
)

// Prober reads audio metadata. The default implementation shells out to
// ffprobe; tests substitute their own.
type Prober interface {
	Duration(ctx context.Context, filePath string) (time.Duration, error)
}

// FFProbe runs the ffprobe binary
type FFProbe struct {
	Binary string
}

// NewFFProbe returns a prober using ffprobe from PATH
func NewFFProbe() *FFProbe {
	return &FFProbe{Binary: "ffprobe"}
}

// Duration returns the container duration reported by ffprobe
func (p *FFProbe) Duration(ctx context.Context, filePath string) (time.Duration, error) {
	return GetAudioDuration(ctx, p.Binary, filePath)
}

// GetAudioDuration returns the duration of an audio file
func GetAudioDuration(ctx context.Context, ffprobe, filePath string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseDuration(string(output))
}

// ParseDuration parses ffprobe's seconds output ("12.345\n")
func ParseDuration(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	if value == "" || value == "N/A" {
		return 0, fmt.Errorf("no duration in ffprobe output")
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Is16kHzWavFile reports whether the file is already 16 kHz PCM, the input
// format whisper.cpp requires
func Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}
	return is16kHzWav(output)
}

func is16kHzWav(ffprobeJSON []byte) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(ffprobeJSON, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav converts the input into a 16 kHz mono WAV file inside
// outputDir and returns its path. The caller owns the returned file.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath, outputDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	outputFilePath := filepath.Join(outputDir, base+"_16khz.wav")

	if _, err := os.Stat(outputFilePath); err == nil {
		return outputFilePath, nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", inputFilePath, "-vn",
		"-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputFilePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("FFmpeg error: %v, stderr: %s", err, lastLine(stderr.String()))
	}
	return outputFilePath, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
