// Package progress adapts a terminal progress bar to the single-threaded
// brick.Progress callback signature: Reduce calls into a Bar synchronously
// from its own goroutine, so there is no ticker and no concurrent
// Increment, only a redraw on every call with a minimum interval to avoid
// flooding the terminal.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Bar renders an in-place terminal progress bar driven by repeated calls
// to Update, matching brick.Progress's float64-fraction callback shape.
type Bar struct {
	label     string
	barWidth  int
	start     time.Time
	lastDraw  time.Time
	minRedraw time.Duration
	cancel    func() bool
}

// New creates a Bar. cancel, if non-nil, is polled on every Update call;
// when it returns true the bar reports the run as cancelled to Update's
// caller.
func New(label string, cancel func() bool) *Bar {
	return &Bar{
		label:     label,
		barWidth:  30,
		start:     time.Now(),
		minRedraw: 50 * time.Millisecond,
		cancel:    cancel,
	}
}

// Update implements brick.Progress. It redraws the bar (rate-limited to
// minRedraw) and returns false to request cancellation.
func (b *Bar) Update(frac float64) bool {
	now := time.Now()
	if frac >= 1 || now.Sub(b.lastDraw) >= b.minRedraw {
		b.draw(frac)
		b.lastDraw = now
	}
	if b.cancel != nil && b.cancel() {
		return false
	}
	return true
}

// Finish redraws the bar at 100% and prints a trailing newline.
func (b *Bar) Finish() {
	b.draw(1)
	fmt.Fprint(os.Stderr, "\n")
}

func (b *Bar) draw(frac float64) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(float64(b.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.barWidth-filled)
	elapsed := time.Since(b.start).Truncate(time.Second)

	fmt.Fprintf(os.Stderr, "\r%s [%s] %3.0f%%  %s\033[K", b.label, bar, frac*100, formatDuration(elapsed))
}

// formatDuration formats a duration concisely (e.g. "1m23s", "45s", "0s").
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}

// CancelFlag is a cooperative cancel switch safe to set from a
// signal.Notify handler goroutine and poll from Reduce's single-threaded
// loop: cmd/ wires Trigger to SIGINT and passes Triggered as Bar's
// cancel func.
type CancelFlag struct {
	triggered atomic.Bool
}

// Trigger marks the flag as set. Safe to call from a signal handler.
func (f *CancelFlag) Trigger() {
	f.triggered.Store(true)
}

// Triggered reports whether Trigger has been called.
func (f *CancelFlag) Triggered() bool {
	return f.triggered.Load()
}
