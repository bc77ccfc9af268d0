package cart

import "sync"

// DefaultMaxApplications is how many times a pass may rewrite prices.
const DefaultMaxApplications = 1

// Pass is the request-scoped guard for one cart total calculation. The
// caller creates one per calculation and hands it to every Recalculate
// call made while computing that total.
type Pass struct {
	mu      sync.Mutex
	max     int
	applied int
}

// NewPass returns a guard allowing max applications (DefaultMaxApplications when max <= 0).
func NewPass(max int) *Pass {
	if max <= 0 {
		max = DefaultMaxApplications
	}
	return &Pass{max: max}
}

// Exhausted reports whether the pass already applied prices max times.
func (p *Pass) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied >= p.max
}

// Applied returns the number of completed applications.
func (p *Pass) Applied() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

func (p *Pass) tryBegin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applied >= p.max {
		return false
	}
	p.applied++
	return true
}

func (p *Pass) rollback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applied > 0 {
		p.applied--
	}
}
