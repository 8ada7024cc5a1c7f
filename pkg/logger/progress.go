package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ProgressTracker reports progress of a long-running scan to a terminal.
// It rewrites a single line and only emits output when the whole-percent
// value changes, so it is cheap to call from tight loops.
type ProgressTracker struct {
	mu      sync.Mutex
	label   string
	total   int
	lastPct int
	out     io.Writer
}

// NewProgressTracker creates a tracker for total steps writing to stderr.
func NewProgressTracker(label string, total int) *ProgressTracker {
	return &ProgressTracker{
		label:   label,
		total:   total,
		lastPct: -1,
		out:     os.Stderr,
	}
}

// SetOutput redirects progress output, mainly for tests.
func (p *ProgressTracker) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = w
}

// Update records that done of total steps have completed.
func (p *ProgressTracker) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total <= 0 {
		return
	}

	pct := done * 100 / p.total
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct

	fmt.Fprintf(p.out, "\r%s: %d/%d (%d%%)", p.label, done, p.total, pct)
}

// Done finishes the progress line.
func (p *ProgressTracker) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastPct >= 0 {
		fmt.Fprintln(p.out)
	}
}
