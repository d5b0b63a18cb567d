package handoff

import (
	"fmt"
	"time"
)

// Timings are empirically tuned policy values, not protocol requirements.
// They are exposed through config because the right numbers drift with OS versions.
type Timings struct {
	FallbackDelay     time.Duration // open-in-app: wait before sending to /download
	ListenerWindow    time.Duration // open-in-app: hard bound on the visibility listener
	AutoAttemptDelay  time.Duration // reset bridge: first attempt after render
	RetryRelabelDelay time.Duration // reset bridge: switch button to manual retry
	ErrorAttemptDelay time.Duration // reset bridge: attempt on error/no-token pages
}

func DefaultTimings() Timings {
	return Timings{
		FallbackDelay:     2500 * time.Millisecond,
		ListenerWindow:    3000 * time.Millisecond,
		AutoAttemptDelay:  300 * time.Millisecond,
		RetryRelabelDelay: 1000 * time.Millisecond,
		ErrorAttemptDelay: 1500 * time.Millisecond,
	}
}

// Validate rejects non-positive values and a listener window shorter than the
// fallback timer (the hidden signal would be dropped before the race resolves).
func (t Timings) Validate() error {
	checks := []struct {
		name string
		val  time.Duration
	}{
		{"FallbackDelay", t.FallbackDelay},
		{"ListenerWindow", t.ListenerWindow},
		{"AutoAttemptDelay", t.AutoAttemptDelay},
		{"RetryRelabelDelay", t.RetryRelabelDelay},
		{"ErrorAttemptDelay", t.ErrorAttemptDelay},
	}
	for _, c := range checks {
		if c.val <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", c.name, c.val)
		}
	}
	if t.ListenerWindow < t.FallbackDelay {
		return fmt.Errorf("ListenerWindow (%v) must be >= FallbackDelay (%v)", t.ListenerWindow, t.FallbackDelay)
	}
	return nil
}

// Millis exposes the timings in milliseconds for page scripts.
func (t Timings) Millis() map[string]int64 {
	return map[string]int64{
		"fallbackDelay":     t.FallbackDelay.Milliseconds(),
		"listenerWindow":    t.ListenerWindow.Milliseconds(),
		"autoAttemptDelay":  t.AutoAttemptDelay.Milliseconds(),
		"retryRelabelDelay": t.RetryRelabelDelay.Milliseconds(),
		"errorAttemptDelay": t.ErrorAttemptDelay.Milliseconds(),
	}
}
