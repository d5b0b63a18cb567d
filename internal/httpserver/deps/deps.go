package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/qr"
	"github.com/MrSnakeDoc/swaply-web/internal/resetbridge"
	"github.com/MrSnakeDoc/swaply-web/internal/scheduler"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

// ReloadStatusFunc reports the last site content reload.
type ReloadStatusFunc func() scheduler.ReloadStatus

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on ops endpoints
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz/infra/reload
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	SiteURL string              // absolute public origin, no trailing slash
	Store   domain.ListingStore // listing backend (memory, redis or postgres)
	Engine  *handoff.Engine     // open-in-app decisions
	Bridge  *resetbridge.Bridge // password reset bridge
	Content *site.Holder        // current site content
	Pages   *web.Renderer       // page templates
	QR      *qr.Generator       // download page QR code

	ReloadTrigger chan struct{}    // Channel to trigger manual content reload
	ReloadStatus  ReloadStatusFunc // nil when content reload is not wired

	// APIMiddleware wraps every /api route (CORS, rate limit). Built once in
	// server.New so all routes share the same limiter.
	APIMiddleware []func(http.Handler) http.Handler
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
