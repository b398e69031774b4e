package engine

import "sync"

// Pausable is a playback-like resource (audio, video, embedded media) that
// can be told to stop producing output.
type Pausable interface {
	Pause()
}

// Coordinator enforces playback exclusivity: at most one registered
// resource plays at a time. Resources register themselves on creation and
// release on teardown; when one becomes active, every other registered
// resource is paused.
//
// This replaces "query the environment for everything that might be
// playing" with an explicit registry, so the exclusivity rule is testable.
type Coordinator struct {
	mu      sync.Mutex
	handles []Pausable
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Register adds a resource and returns a release func that removes it.
// Releasing twice is harmless.
func (c *Coordinator) Register(h Pausable) func() {
	c.mu.Lock()
	c.handles = append(c.handles, h)
	c.mu.Unlock()

	released := false
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if released {
			return
		}
		released = true
		for i, existing := range c.handles {
			if existing == h {
				c.handles = append(c.handles[:i], c.handles[i+1:]...)
				return
			}
		}
	}
}

// Exclusive pauses every registered resource except active. Passing nil
// pauses everything.
func (c *Coordinator) Exclusive(active Pausable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.handles {
		if h != active {
			h.Pause()
		}
	}
}

// Count returns the number of registered resources.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}
