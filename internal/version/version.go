package version

import (
	"runtime"
	"time"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/swaply-web/internal/version.Version=..."
var (
	Version   = "dev"                           // ex: v1.2.0
	Commit    = "none"                          // ex: 3f9c2aa
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-18T09:12:00Z
	GoVersion = runtime.Version()
)

// String renders a one-line build summary for logs and /healthz.
func String() string {
	return Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
