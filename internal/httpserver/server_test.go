package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/swaply-web/internal/config"
	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/qr"
	"github.com/MrSnakeDoc/swaply-web/internal/resetbridge"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
	"github.com/MrSnakeDoc/swaply-web/internal/store/memory"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36"
	desktopUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
	wechatUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 MicroMessenger/8.0.42"
)

func testDeps(t *testing.T) deps.Deps {
	t.Helper()

	log := logger.NewNop()
	links := handoff.NewLinks("https://swaply.cc")
	timings := handoff.DefaultTimings()

	store := memory.NewStore()
	require.NoError(t, store.SaveListingsMany(context.Background(), []*domain.Listing{
		{ID: "a1", Title: "iPhone 12", Price: "350", City: "Harare", Category: "Phones", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "a2", Title: "Wooden sofa", Price: "negotiable", City: "Bulawayo", Category: "Home Furniture", CreatedAt: time.Now()},
	}))

	pages, err := web.NewRenderer()
	require.NoError(t, err)

	content := site.DefaultContent()
	content.AppleAppIDs = []string{"TEAMID.cc.swaply.app"}

	return deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		Version:   "test",
		TimeNow:   time.Now,
		SiteURL:   "https://swaply.cc",
		Store:     store,
		Engine:    handoff.NewEngine(links, timings, log),
		Bridge:    resetbridge.NewBridge(links, timings, log),
		Content:   site.NewHolder(content),
		Pages:     pages,
		QR:        qr.NewGenerator(qr.DefaultSize, qr.DefaultLevel),
	}
}

func testRouter(t *testing.T, d deps.Deps, cfg *config.Config) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{CORSOrigins: []string{"*"}, RateBurst: 100, RatePerMinute: 100}
	}
	d.APIMiddleware = APIMiddleware(cfg)
	return NewRouter(logger.NewNop(), d)
}

func do(h http.Handler, method, target, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProviderCallback(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/api/auth/apple/callback?code=x&state=y", desktopUA)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	rec = do(h, http.MethodPost, "/api/auth/apple/callback", desktopUA)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestAuthCallbackPage(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/auth/callback?code=abc", iPhoneUA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Body.String(), `href="cc.swaply.app://login-callback?code=abc"`)
	assert.Contains(t, rec.Body.String(), "/static/callback.js")
}

func TestResetPasswordPage(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	t.Run("query credential renders ready state", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/reset-password?code=abc", iPhoneUA)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
		assert.Contains(t, rec.Body.String(), "Opening Swaply app...")
		assert.Contains(t, rec.Body.String(), `id="reset-view"`)
		assert.NotContains(t, rec.Body.String(), `id="reset-fallback-view"`)
	})

	t.Run("no query renders parsing state", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/reset-password", iPhoneUA)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/static/reset.js")
		assert.NotContains(t, rec.Body.String(), "is-error")
		assert.Contains(t, rec.Body.String(), `id="reset-fallback-view"`)
		assert.Contains(t, rec.Body.String(), `"state":"missing_credential"`)
	})

	t.Run("chinese visitors get the chinese page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reset-password?token=t", nil)
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `lang="zh`)
	})
}

func TestResetPasswordResolve(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	tests := []struct {
		name        string
		target      string
		userAgent   string
		wantState   string
		wantAppURL  string
		wantIsError bool
		wantCopy    bool
	}{
		{
			name:       "fragment tokens",
			target:     "/api/reset-password/resolve?fragment=access_token%3Dtok%26refresh_token%3Dref%26type%3Drecovery",
			userAgent:  iPhoneUA,
			wantState:  "ready",
			wantAppURL: "cc.swaply.app://reset-password?token=tok&type=recovery&refresh_token=ref",
		},
		{
			name:        "fragment error with a stray percent",
			target:      "/api/reset-password/resolve?fragment=error%3Daccess_denied%26error_description%3DLink%2Bexpired%2B100%25",
			userAgent:   iPhoneUA,
			wantState:   "error",
			wantAppURL:  "cc.swaply.app://reset-password?error=access_denied&error_description=Link+expired+100%25",
			wantIsError: true,
		},
		{
			name:       "query code",
			target:     "/api/reset-password/resolve?code=abc",
			userAgent:  androidUA,
			wantState:  "ready",
			wantAppURL: "cc.swaply.app://reset-password?code=abc&type=recovery",
		},
		{
			name:        "provider error wins over token",
			target:      "/api/reset-password/resolve?token=t&error=access_denied&error_description=Link+expired",
			userAgent:   iPhoneUA,
			wantState:   "error",
			wantAppURL:  "cc.swaply.app://reset-password?error=access_denied&error_description=Link+expired",
			wantIsError: true,
		},
		{
			name:        "missing credential",
			target:      "/api/reset-password/resolve?type=recovery",
			userAgent:   iPhoneUA,
			wantState:   "missing_credential",
			wantAppURL:  "cc.swaply.app://reset-password?error=no_token&error_description=Token+not+found+in+reset+link",
			wantIsError: true,
		},
		{
			name:       "restricted browser switches to copy mode",
			target:     "/api/reset-password/resolve?code=abc",
			userAgent:  wechatUA,
			wantState:  "ready",
			wantAppURL: "cc.swaply.app://reset-password?code=abc&type=recovery",
			wantCopy:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, tt.target, tt.userAgent)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

			view := decodeMap(t, rec)
			assert.Equal(t, tt.wantState, view["state"])
			assert.Equal(t, tt.wantAppURL, view["appUrl"])
			assert.Equal(t, tt.wantIsError, view["isError"])
			assert.Equal(t, tt.wantCopy, view["copyMode"])
			if tt.wantCopy {
				assert.Equal(t, "wechat", view["environment"])
				assert.Equal(t, "Safari", view["systemBrowser"])
				assert.Equal(t, false, view["autoAttempt"])
			}
		})
	}
}

func TestHandoffDecision(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	tests := []struct {
		name       string
		userAgent  string
		wantMethod string
		wantNative string
	}{
		{name: "ios uses the scheme", userAgent: iPhoneUA, wantMethod: "scheme", wantNative: "cc.swaply.app://listing?id=a1"},
		{
			name:       "android uses an intent",
			userAgent:  androidUA,
			wantMethod: "intent",
			wantNative: "intent://swaply.cc/l/a1#Intent;scheme=https;package=cc.swaply.app;S.browser_fallback_url=https%3A%2F%2Fswaply.cc%2Fdownload;end",
		},
		{name: "desktop goes to download", userAgent: desktopUA, wantMethod: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, "/api/handoff/a1", tt.userAgent)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "User-Agent", rec.Header().Get("Vary"))

			decision := decodeMap(t, rec)
			assert.Equal(t, tt.wantMethod, decision["method"])
			assert.Equal(t, "/download", decision["fallbackPath"])
			assert.Equal(t, "https://swaply.cc/download", decision["fallbackUrl"])
			if tt.wantNative != "" {
				assert.Equal(t, tt.wantNative, decision["nativeUrl"])
			} else {
				assert.NotContains(t, decision, "nativeUrl")
			}
			assert.NotEmpty(t, decision["attemptId"])
		})
	}
}

func TestListingPages(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/l/a1", iPhoneUA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iPhone 12")
	assert.Contains(t, rec.Body.String(), "handoff-decision")

	rec = do(h, http.MethodGet, "/l/missing", iPhoneUA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Listing not found")

	rec = do(h, http.MethodGet, "/listing?id=a1", iPhoneUA)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/l/a1", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/browse?city=harare", desktopUA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iPhone 12")
	assert.NotContains(t, rec.Body.String(), "Wooden sofa")

	rec = do(h, http.MethodGet, "/browse?q=sofa", desktopUA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wooden sofa")
	assert.NotContains(t, rec.Body.String(), "iPhone 12")

	rec = do(h, http.MethodGet, "/browse?q="+strings.Repeat("x", 101), desktopUA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/", desktopUA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wooden sofa")
}

func TestNotFound(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/does-not-exist", desktopUA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestSEOEndpoints(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/robots.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://swaply.cc/sitemap.xml")

	rec = do(h, http.MethodGet, "/sitemap.xml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<loc>https://swaply.cc/download</loc>")

	for _, path := range []string{"/.well-known/apple-app-site-association", "/apple-app-site-association"} {
		rec = do(h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
		assert.True(t, strings.Contains(rec.Body.String(), `"appID":"TEAMID.cc.swaply.app"`), rec.Body.String())
	}
}

func TestDownloadAssets(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	rec := do(h, http.MethodGet, "/download/qr.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = do(h, http.MethodGet, "/static/site.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsEndpoints(t *testing.T) {
	d := testDeps(t)
	h := testRouter(t, d, nil)

	rec := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeMap(t, rec)["status"])

	rec = do(h, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeMap(t, rec)["ready"])

	rec = do(h, http.MethodGet, "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "operational", decodeMap(t, rec)["mode"])

	rec = do(h, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestReloadTrigger(t *testing.T) {
	d := testDeps(t)
	d.ReloadTrigger = make(chan struct{}, 1)
	h := testRouter(t, d, nil)

	assert.Equal(t, http.StatusAccepted, do(h, http.MethodPost, "/reload", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/reload", "").Code)
}

func TestOpsRestrictedToCIDRS(t *testing.T) {
	d := testDeps(t)
	d.AllowedCIDRS = []string{"10.0.0.0/8"}
	h := testRouter(t, d, nil)

	// httptest requests come from 192.0.2.1
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/robots.txt", "").Code)
}

func TestAPIRateLimit(t *testing.T) {
	h := testRouter(t, testDeps(t), &config.Config{CORSOrigins: []string{"*"}, RateBurst: 2, RatePerMinute: 1})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/handoff/a1", desktopUA).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/handoff/a1", desktopUA).Code)

	rec := do(h, http.MethodGet, "/api/handoff/a1", desktopUA)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// pages are not rate limited
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/robots.txt", "").Code)
}

func TestAPICORSPreflight(t *testing.T) {
	h := testRouter(t, testDeps(t), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/handoff/a1", nil)
	req.Header.Set("Origin", "https://app.swaply.cc")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, http.StatusMultipleChoices)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
