package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports how far a reindex run has come, writing a
// line every reportInterval documents.
type progressTracker struct {
	mu             sync.Mutex
	writer         io.Writer
	total          int
	current        int
	lastReported   int
	reportInterval int
	startTime      time.Time
}

func newProgressTracker(writer io.Writer, total, reportInterval int) *progressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &progressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

// Increment advances progress by delta and reports when an interval
// boundary is crossed.
func (p *progressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish forces a final report.
func (p *progressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since the tracker was created.
func (p *progressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.startTime)
}

func (p *progressTracker) report() {
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}
	rate := float64(p.current) / time.Since(p.startTime).Seconds()
	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f docs/s",
		p.current, p.total, percentage, rate)
}
