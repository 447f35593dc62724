package interact

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/JJeris/blendio/internal/core"
)

// Headless answers prompts without asking anyone. Confirmations get the fixed
// answer, pickers select nothing and notices are written to out as plain
// lines.
type Headless struct {
	mu     sync.Mutex
	out    io.Writer
	assume bool
	min    core.NoticeLevel
	failed atomic.Bool
}

// NewHeadless creates a Headless that answers every confirmation with assume.
func NewHeadless(out io.Writer, assume bool) *Headless {
	if out == nil {
		out = io.Discard
	}
	return &Headless{out: out, assume: assume}
}

// Quiet drops notices below level.
func (h *Headless) Quiet(level core.NoticeLevel) *Headless {
	h.min = level
	return h
}

func (h *Headless) Confirm(context.Context, string, string) (bool, error) {
	return h.assume, nil
}

func (h *Headless) Notify(_ context.Context, level core.NoticeLevel, message string) {
	if level < h.min {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "%s: %s\n", level, message)
	if level == core.NoticeError {
		h.failed.Store(true)
	}
}

// Reported reports whether an error notice has been written.
func (h *Headless) Reported() bool {
	return h.failed.Load()
}

func (h *Headless) PickFile(context.Context, string, []string) (string, error) {
	return "", nil
}

func (h *Headless) PickFolder(context.Context, string) (string, error) {
	return "", nil
}
