package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
// Callbacks fire synchronously on the goroutine calling Advance, which makes
// timing-dependent code deterministic under test.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	regs   map[int]*registration
}

type registration struct {
	id       int
	interval time.Duration
	next     time.Time
	fn       func()
}

var _ Clock = (*Manual)(nil)

// NewManual returns a Manual clock set to the Unix epoch.
func NewManual() *Manual {
	return &Manual{
		now:  time.Unix(0, 0).UTC(),
		regs: make(map[int]*registration),
	}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Registrations returns the number of active registrations.
func (m *Manual) Registrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regs)
}

// Every registers fn to fire each time the clock crosses a multiple of interval
// measured from the current manual time. It panics if interval is not positive.
func (m *Manual) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		panic(ErrNonPositiveInterval)
	}

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.regs[id] = &registration{
		id:       id,
		interval: interval,
		next:     m.now.Add(interval),
		fn:       fn,
	}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.regs, id)
		m.mu.Unlock()
	}
}

// Advance moves the clock forward by d, firing every callback that falls due
// in time order. A registration due several times within d fires several times.
// Registrations created or stopped by a callback take effect immediately.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.earliestDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// earliestDue returns the registration with the earliest fire time not after
// target, ties broken by registration order. Caller holds m.mu.
func (m *Manual) earliestDue(target time.Time) *registration {
	var best *registration
	for _, r := range m.regs {
		if r.next.After(target) {
			continue
		}
		if best == nil || r.next.Before(best.next) || (r.next.Equal(best.next) && r.id < best.id) {
			best = r
		}
	}
	return best
}
