package model

import (
	"sync"
	"time"
)

// Clock accumulates how long one side spends on its turns.
type Clock struct {
	mu          sync.Mutex
	total       time.Duration
	turns       int
	lastStarted time.Time // When the clock was last started
	isRunning   bool
}

type TurnStats struct {
	TotalMs int64 `json:"totalMs"`
	Count   int   `json:"count"`
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = time.Now()
		c.isRunning = true
	}
}

// Stop ends the current turn and records it.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.total += time.Since(c.lastStarted)
		c.turns++
		c.isRunning = false
	}
}

func (c *Clock) Stats() TurnStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return TurnStats{TotalMs: c.total.Milliseconds(), Count: c.turns}
}

// Average is the mean turn duration, zero before the first completed turn.
func (c *Clock) Average() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.turns == 0 {
		return 0
	}
	return c.total / time.Duration(c.turns)
}
