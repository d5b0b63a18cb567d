package handoff

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Outcome is the single result of a handoff attempt.
type Outcome int

const (
	OutcomeNativeOpened Outcome = iota + 1
	OutcomeFallbackTriggered
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNativeOpened:
		return "native_opened"
	case OutcomeFallbackTriggered:
		return "fallback_triggered"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	// ErrAttemptInFlight is returned when a control is triggered again before
	// its previous attempt resolved. The second trigger has no effect.
	ErrAttemptInFlight = errors.New("handoff: attempt already in flight")

	// ErrHandoffTimeout is the silent, expected outcome of an app that did not
	// take the foreground in time. Only logged.
	ErrHandoffTimeout = errors.New("handoff: app did not open before fallback")
)

// Navigator drives the page location.
type Navigator interface {
	// Navigate assigns the location (history entry kept, custom schemes allowed).
	Navigate(target string) error
	// Replace replaces the location without a history entry.
	Replace(target string) error
}

// Page exposes the visibility signal of the hosting page.
type Page interface {
	// Hidden delivers once when the page loses visibility.
	Hidden() <-chan struct{}
	// IsHidden reports the current visibility.
	IsHidden() bool
}

// Run executes one attempt for a decision: navigate to the native URL and race
// the hidden signal against the fallback timer. Every timer and the listener
// are released before Run returns, whichever side wins.
//
// Browsers run the same race in web/static/handoff.js, fed by the Decision
// and Timings this package serves. Run is the tested model of that script:
// a change to the outcome rules here must be mirrored there, and the reverse.
func (e *Engine) Run(ctx context.Context, d Decision, nav Navigator, page Page) Outcome {
	log := e.logger.With(logger.String("attempt_id", d.AttemptID))

	if d.Method == MethodNone || d.NativeURL == "" {
		e.fallback(log, nav, d, d.Err())
		return OutcomeFallbackTriggered
	}

	fallbackTimer := time.NewTimer(e.timings.FallbackDelay)
	defer fallbackTimer.Stop()
	listenerWindow := time.NewTimer(e.timings.ListenerWindow)
	defer listenerWindow.Stop()

	hidden := page.Hidden()

	if err := nav.Navigate(d.NativeURL); err != nil {
		fallbackTimer.Stop()
		e.fallback(log, nav, d, fmt.Errorf("%w: %v", ErrNavigation, err))
		return OutcomeFallbackTriggered
	}

	for {
		select {
		case <-hidden:
			log.Debug("page hidden before fallback, app took over",
				logger.String("method", string(d.Method)))
			return OutcomeNativeOpened

		case <-fallbackTimer.C:
			if page.IsHidden() {
				return OutcomeNativeOpened
			}
			e.fallback(log, nav, d, ErrHandoffTimeout)
			return OutcomeFallbackTriggered

		case <-listenerWindow.C:
			// detach; a nil channel never fires
			hidden = nil

		case <-ctx.Done():
			log.Debug("handoff attempt cancelled", logger.Error(ctx.Err()))
			return OutcomeCancelled
		}
	}
}

func (e *Engine) fallback(log logger.Logger, nav Navigator, d Decision, cause error) {
	switch {
	case cause == nil:
		log.Debug("no native path for platform, sending to download page",
			logger.String("platform", d.Platform.String()))
	case errors.Is(cause, ErrHandoffTimeout):
		log.Debug("handoff timed out, sending to download page",
			logger.Duration("waited", e.timings.FallbackDelay))
	default:
		log.Warn("handoff navigation failed, sending to download page", logger.Error(cause))
	}
	if err := nav.Replace(d.FallbackPath); err != nil {
		log.Error("download fallback navigation failed", logger.Error(err))
	}
}

// Control is one "Open in App" button. It owns at most one attempt at a time.
type Control struct {
	engine   *Engine
	targetID string
	inFlight atomic.Bool
}

func NewControl(engine *Engine, targetID string) *Control {
	return &Control{engine: engine, targetID: targetID}
}

// Trigger decides and runs an attempt for the visitor's user-agent. A trigger
// while the previous attempt is unresolved is ignored with ErrAttemptInFlight.
func (c *Control) Trigger(ctx context.Context, userAgent string, nav Navigator, page Page) (Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return 0, ErrAttemptInFlight
	}
	defer c.inFlight.Store(false)

	d := c.engine.Decide(c.targetID, userAgent)
	return c.engine.Run(ctx, d, nav, page), nil
}

// InFlight reports whether an attempt is unresolved.
func (c *Control) InFlight() bool { return c.inFlight.Load() }
