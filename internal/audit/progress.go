package audit

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// TaskProgress tracks one unit of work.
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ProgressManager starts progress tasks.
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
}

// NewProgressManager returns a progress bar manager writing to w when enabled
// and w is a terminal, and a no-op manager otherwise.
func NewProgressManager(enabled bool, w io.Writer) ProgressManager {
	if enabled && isTerminal(w) {
		return &barProgressManager{writer: w}
	}
	return NoOpProgressManager{}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

type barProgressManager struct {
	writer io.Writer
}

func (pm *barProgressManager) StartTask(description string, total int) TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &barTask{bar: bar}
}

type barTask struct {
	bar *progressbar.ProgressBar
}

func (t *barTask) Increment(n int) {
	_ = t.bar.Add(n)
}

func (t *barTask) Describe(description string) {
	t.bar.Describe(description)
}

func (t *barTask) Complete() {
	_ = t.bar.Finish()
}

// NoOpProgressManager discards all progress.
type NoOpProgressManager struct{}

// StartTask returns a no-op task.
func (NoOpProgressManager) StartTask(string, int) TaskProgress {
	return noOpTask{}
}

type noOpTask struct{}

func (noOpTask) Increment(int)   {}
func (noOpTask) Describe(string) {}
func (noOpTask) Complete()       {}
