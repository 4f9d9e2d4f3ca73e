package activity

import (
	"sync"

	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
)

// Signal is a class of user interaction that counts as activity.
// Values match the DOM event names the portal front-end forwards.
type Signal string

const (
	PointerDown  Signal = "mousedown"
	PointerUp    Signal = "mouseup"
	PointerEnter Signal = "mouseenter"
	PointerLeave Signal = "mouseleave"
	Wheel        Signal = "wheel"
	Scroll       Signal = "scroll"
	KeyDown      Signal = "keydown"
	KeyUp        Signal = "keyup"
	Focus        Signal = "focus"
	Blur         Signal = "blur"
)

// Signals is the fixed set of interactions the monitor listens to.
var Signals = []Signal{PointerDown, PointerUp, PointerEnter, PointerLeave, Wheel, Scroll, KeyDown, KeyUp, Focus, Blur}

var knownSignals = func() map[Signal]struct{} {
	m := make(map[Signal]struct{}, len(Signals))
	for _, s := range Signals {
		m[s] = struct{}{}
	}
	return m
}()

// ParseSignal maps an event name onto a Signal.
func ParseSignal(name string) (Signal, bool) {
	s := Signal(name)
	_, ok := knownSignals[s]
	return s, ok
}

// Monitor turns bursts of interaction signals into throttled "activity happened" calls.
// It never looks at the session itself.
type Monitor struct {
	mu       sync.Mutex
	throttle Throttle
	handler  func()
}

// NewMonitor creates a stopped monitor. A nil throttle coalesces per frame at DefaultFrameInterval.
func NewMonitor(throttle Throttle) *Monitor {
	if throttle == nil {
		throttle = NewFrameThrottle(IntervalFrames(DefaultFrameInterval))
	}
	return &Monitor{throttle: throttle}
}

// Start registers handler to be notified of activity.
func (m *Monitor) Start(handler func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handler != nil {
		return apperrors.ErrAlreadyStarted
	}
	m.handler = handler
	return nil
}

// Stop unregisters the handler. Signals received afterwards are ignored.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = nil
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler != nil
}

// Signal records one interaction. It reports false when the monitor is stopped
// or kind is not a listened-to interaction.
func (m *Monitor) Signal(kind Signal) bool {
	if _, ok := knownSignals[kind]; !ok {
		return false
	}

	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()

	if handler == nil {
		return false
	}
	m.throttle.Do(handler)
	return true
}
