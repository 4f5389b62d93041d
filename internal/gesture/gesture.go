// Package gesture turns a downward drag at the top of a scrollable region
// into a refresh action.
//
// A drag is tracked only when the region is scrolled to the top and no
// refresh is running. The visual pull distance is the drag delta divided by
// a resistance factor and clamped to 1.5 × threshold; releasing past the
// threshold runs the refresh callback once.
package gesture

import (
	"context"
	"sync"
)

const (
	DefaultThreshold  = 80.0
	DefaultResistance = 2.5

	maxPullFactor = 1.5
)

// RefreshFunc is invoked once per completed gesture.
type RefreshFunc func(ctx context.Context) error

// Options configure the pull physics. Zero values fall back to the defaults.
type Options struct {
	Threshold  float64
	Resistance float64
}

// State is a snapshot of the gesture used for rendering the indicator.
type State struct {
	Pull       float64
	CanRefresh bool
	Refreshing bool
	Tracking   bool
}

type Controller struct {
	threshold  float64
	resistance float64
	refresh    RefreshFunc

	mu     sync.Mutex
	startY float64
	state  State
}

func NewController(opts Options, refresh RefreshFunc) *Controller {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Resistance <= 0 {
		opts.Resistance = DefaultResistance
	}
	return &Controller{
		threshold:  opts.Threshold,
		resistance: opts.Resistance,
		refresh:    refresh,
	}
}

// TouchStart begins tracking at y. It returns false, and tracks nothing,
// when the region is not at the top or a refresh is in progress.
func (c *Controller) TouchStart(y, scrollOffset float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if scrollOffset > 0 || c.state.Refreshing {
		return false
	}

	c.startY = y
	c.state = State{Tracking: true}
	return true
}

// TouchMove updates the pull distance. A non-positive delta abandons the gesture.
func (c *Controller) TouchMove(y float64) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Tracking {
		return c.state
	}

	delta := y - c.startY
	if delta <= 0 {
		c.state = State{}
		return c.state
	}

	c.state.Pull = min(delta/c.resistance, c.threshold*maxPullFactor)
	c.state.CanRefresh = c.state.Pull >= c.threshold
	return c.state
}

// TouchEnd completes the gesture. When the pull reached the threshold the
// indicator is held at the threshold while the refresh callback runs, then
// reset whatever the outcome. The callback error is returned.
func (c *Controller) TouchEnd(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Tracking || !c.state.CanRefresh || c.refresh == nil {
		if !c.state.Refreshing {
			c.state = State{}
		}
		c.mu.Unlock()
		return nil
	}
	c.state = State{Pull: c.threshold, Refreshing: true}
	c.mu.Unlock()

	err := c.refresh(ctx)

	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()

	return err
}

// Cancel abandons a tracked gesture. A running refresh is not affected.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Refreshing {
		c.state = State{}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Threshold() float64 {
	return c.threshold
}
