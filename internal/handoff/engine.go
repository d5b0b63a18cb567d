package handoff

import (
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Request is one visitor's intent to open a resource in the app.
type Request struct {
	TargetID string
	Platform Platform
	IsMobile bool
}

// Method is the transfer mechanism chosen for a request.
type Method string

const (
	MethodScheme Method = "scheme" // custom URL scheme (iOS)
	MethodIntent Method = "intent" // Android intent with OS-side fallback
	MethodNone   Method = "none"   // no native path, go straight to download
)

// Decision is everything a page needs to execute a handoff attempt.
// It is serialized into the page and mirrored by the client script.
type Decision struct {
	AttemptID    string           `json:"attemptId"`
	TargetID     string           `json:"targetId"`
	Platform     Platform         `json:"platform"`
	IsMobile     bool             `json:"isMobile"`
	Method       Method           `json:"method"`
	NativeURL    string           `json:"nativeUrl,omitempty"`
	FallbackPath string           `json:"fallbackPath"`
	FallbackURL  string           `json:"fallbackUrl"`
	Timings      map[string]int64 `json:"timings"`

	// set when the native URL could not be built, the attempt then goes
	// straight to the fallback
	err error
}

// Err returns the construction error, if any.
func (d Decision) Err() error { return d.err }

// Engine decides and executes app handoffs.
type Engine struct {
	links   Links
	timings Timings
	logger  logger.Logger
}

func NewEngine(links Links, timings Timings, log logger.Logger) *Engine {
	return &Engine{
		links:   links,
		timings: timings,
		logger:  log,
	}
}

func (e *Engine) Links() Links     { return e.links }
func (e *Engine) Timings() Timings { return e.timings }

// NewRequest classifies the user-agent for a target.
func NewRequest(targetID, userAgent string) Request {
	p := ClassifyPlatform(userAgent)
	return Request{
		TargetID: targetID,
		Platform: p,
		IsMobile: p.IsMobile(),
	}
}

// Decide picks the most reliable transfer mechanism for the visitor. It never
// fails: a URL that cannot be built degrades to MethodNone.
func (e *Engine) Decide(targetID, userAgent string) Decision {
	req := NewRequest(targetID, userAgent)

	d := Decision{
		AttemptID:    uuid.NewString(),
		TargetID:     req.TargetID,
		Platform:     req.Platform,
		IsMobile:     req.IsMobile,
		Method:       MethodNone,
		FallbackPath: e.links.DownloadPath,
		FallbackURL:  e.links.DownloadURL(),
		Timings:      e.timings.Millis(),
	}

	var (
		native string
		err    error
	)
	switch req.Platform {
	case PlatformIOS:
		native, err = e.links.ListingSchemeURL(req.TargetID)
		d.Method = MethodScheme
	case PlatformAndroid:
		native, err = e.links.IntentURL(req.TargetID)
		d.Method = MethodIntent
	default:
		return d
	}

	if err != nil {
		e.logger.Warn("handoff url construction failed, using download fallback",
			logger.String("attempt_id", d.AttemptID),
			logger.String("platform", req.Platform.String()),
			logger.Error(err))
		d.Method = MethodNone
		d.err = err
		return d
	}

	d.NativeURL = native
	return d
}
