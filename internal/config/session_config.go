package config

import "time"

const (
	ThrottleFrame  = "frame"
	ThrottleWindow = "window"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionTimeout is the inactivity period after which an authenticated session is logged out.
func (Session) GetSessionTimeout() time.Duration {
	minutes := GetEnvInt("SESSION_TIMEOUT_MINUTES", 60)
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func (Session) GetActivityThrottle() string {
	if GetEnv("ACTIVITY_THROTTLE", ThrottleFrame) == ThrottleWindow {
		return ThrottleWindow
	}
	return ThrottleFrame
}

func (Session) GetActivityWindow() time.Duration {
	ms := GetEnvInt("ACTIVITY_WINDOW_MS", 16)
	if ms <= 0 {
		ms = 16
	}
	return time.Duration(ms) * time.Millisecond
}
