package converter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager hands out one bar per batch. Every batch gets its own mpb
// container, so a converter can run any number of batches. A disabled
// manager hands out no-op bars so callers never branch on it.
type ProgressManager struct {
	enabled bool
	writer  io.Writer

	mu     sync.Mutex
	active *mpb.Progress
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressManager{enabled: config.Enabled, writer: writer}
}

// BatchBar follows one batch of audio files: how many are finished, how many
// failed and which file was picked up last.
type BatchBar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	failed    atomic.Int64
	mu        sync.Mutex
	current   string
	release   func()
}

func (pm *ProgressManager) NewBatchBar(files int) *BatchBar {
	b := &BatchBar{}
	if !pm.enabled {
		return b
	}

	// auto refresh renders into pipes and buffers as well as terminals
	b.container = mpb.New(
		mpb.WithOutput(pm.writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithAutoRefresh(),
	)
	pm.mu.Lock()
	pm.active = b.container
	pm.mu.Unlock()
	b.release = func() {
		pm.mu.Lock()
		if pm.active == b.container {
			pm.active = nil
		}
		pm.mu.Unlock()
	}

	description := FormatProgressDescription("Transcribing", files)
	b.bar = b.container.AddBar(int64(files),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
			decor.Any(func(decor.Statistics) string {
				if n := b.failed.Load(); n > 0 {
					return fmt.Sprintf(" %d failed", n)
				}
				return ""
			}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " done "),
			decor.OnComplete(decor.Any(func(decor.Statistics) string {
				b.mu.Lock()
				defer b.mu.Unlock()
				return " " + b.current
			}), ""),
		),
	)
	return b
}

// Start marks fileName as the file being transcribed
func (b *BatchBar) Start(fileName string) {
	b.mu.Lock()
	b.current = fileName
	b.mu.Unlock()
}

// Finish counts one file as done. elapsed feeds the EWMA ETA.
func (b *BatchBar) Finish(failed bool, elapsed time.Duration) {
	if failed {
		b.failed.Add(1)
	}
	if b.bar != nil {
		b.bar.EwmaIncrement(elapsed)
	}
}

// Failed returns how many files finished with an error
func (b *BatchBar) Failed() int {
	return int(b.failed.Load())
}

// Wait completes the bar and blocks until its final frame is rendered
func (b *BatchBar) Wait() {
	if b.container == nil {
		return
	}
	b.bar.SetTotal(-1, true)
	b.container.Wait()
	b.release()
}

// Shutdown aborts the batch in progress, if any
func (pm *ProgressManager) Shutdown() {
	pm.mu.Lock()
	active := pm.active
	pm.active = nil
	pm.mu.Unlock()
	if active != nil {
		active.Shutdown()
	}
}

// ShouldShowProgress enables bars when forced or when stderr is a terminal
func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}
	stat, err := os.Stderr.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

func FormatProgressDescription(action string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s 1 file", action)
	}
	return fmt.Sprintf("%s %d files", action, count)
}
