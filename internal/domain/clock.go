package domain

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// RealClock uses the actual system time
type RealClock struct{}

// NewRealClock creates a new RealClock instance
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// SimulatedClock allows time manipulation for testing
type SimulatedClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewSimulatedClock creates a new SimulatedClock starting at the given time
func NewSimulatedClock(start time.Time) *SimulatedClock {
	return &SimulatedClock{current: start}
}

// Now returns the simulated current time
func (c *SimulatedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the simulated time forward by the given duration
func (c *SimulatedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Set sets the simulated time to a specific value
func (c *SimulatedClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}
