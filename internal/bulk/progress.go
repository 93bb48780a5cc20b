package bulk

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks a bulk run. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	total     int
	succeeded int
	failed    int
	start     time.Time
}

// NewProgress creates a tracker for total items.
func NewProgress(total int) *Progress {
	return &Progress{total: total, start: time.Now()}
}

// Add records one finished item and returns the new state.
func (p *Progress) Add(ok bool) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ok {
		p.succeeded++
	} else {
		p.failed++
	}
	return p.snapshotLocked()
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	done := p.succeeded + p.failed
	s := ProgressSnapshot{
		Total:     p.total,
		Done:      done,
		Succeeded: p.succeeded,
		Failed:    p.failed,
		Elapsed:   time.Since(p.start),
	}
	if p.total > 0 {
		s.PercentComplete = float64(done) / float64(p.total) * percentMultiplier
	}
	return s
}

// notify serialises progress callbacks.
func (p *Progress) notify(cb ProgressCallback, s ProgressSnapshot) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	cb(s)
}

// ProgressSnapshot is an immutable view of a Progress.
type ProgressSnapshot struct {
	Total           int
	Done            int
	Succeeded       int
	Failed          int
	PercentComplete float64
	Elapsed         time.Duration
}

// Complete reports whether every item finished.
func (s ProgressSnapshot) Complete() bool {
	return s.Done >= s.Total
}
