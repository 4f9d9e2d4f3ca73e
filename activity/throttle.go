package activity

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFrameInterval approximates one frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Throttle runs f at most once per coalescing window.
type Throttle interface {
	Do(f func())
}

// FrameSource runs f at the start of the next rendering frame.
type FrameSource interface {
	RequestFrame(f func())
}

// IntervalFrames is a FrameSource without a render loop: a frame starts every interval.
type IntervalFrames time.Duration

func (i IntervalFrames) RequestFrame(f func()) {
	time.AfterFunc(time.Duration(i), f)
}

// FrameThrottle lets the first call through and drops the rest until the next frame starts.
type FrameThrottle struct {
	mu      sync.Mutex
	frames  FrameSource
	pending bool
}

func NewFrameThrottle(frames FrameSource) *FrameThrottle {
	return &FrameThrottle{frames: frames}
}

func (t *FrameThrottle) Do(f func()) {
	t.mu.Lock()
	if t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = true
	t.mu.Unlock()

	t.frames.RequestFrame(t.reopen)
	f()
}

func (t *FrameThrottle) reopen() {
	t.mu.Lock()
	t.pending = false
	t.mu.Unlock()
}

// NewWindowThrottle coalesces on a fixed time window instead of frames.
func NewWindowThrottle(window time.Duration) Throttle {
	if window <= 0 {
		window = DefaultFrameInterval
	}
	return &rate.Sometimes{Interval: window}
}
