package resetbridge

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

const (
	uaSafari = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	uaWeChat = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 MicroMessenger/8.0.47 NetType/WIFI Language/zh_CN"
	uaQQMail = "Mozilla/5.0 (Linux; Android 13) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0 Mobile Safari/537.36 QQ/8.9.20 QQMail/6.4.9"
)

func newTestBridge() *Bridge {
	return NewBridge(handoff.NewLinks("https://swaply.cc"), handoff.DefaultTimings(), logger.NewNop())
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func TestResolve_CodeInSafariIsReady(t *testing.T) {
	b := newTestBridge()
	params := ParseParams(mustQuery(t, "code=abc123&type=recovery"), "")

	v := b.Resolve(params, uaSafari, "")

	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, handoff.EmbeddingNone, v.Environment)
	assert.Equal(t, "cc.swaply.app://reset-password?code=abc123&type=recovery", v.AppURL)
	assert.True(t, v.AutoAttempt)
	assert.Equal(t, int64(300), v.AttemptDelayMs)
	assert.Equal(t, int64(1000), v.RetryDelayMs)
	assert.Equal(t, "Tap here if app did not open", v.RetryLabel)
	assert.Equal(t, "Opening Swaply app...", v.Message)
	assert.False(t, v.CopyMode)
	assert.False(t, v.IsError)
	assert.Nil(t, v.Notice)
}

func TestResolve_FragmentErrorIsDetected(t *testing.T) {
	b := newTestBridge()
	params := ParseParams(url.Values{}, "error=access_denied&error_code=otp_expired&error_description=Link+expired")

	v := b.Resolve(params, uaSafari, "")

	assert.Equal(t, StateErrorDetected, v.State)
	assert.True(t, v.IsError)
	assert.Equal(t, "Link expired Please request a new one from the app.", v.Message)
	assert.Equal(t, "Return to App", v.ButtonLabel)
	assert.Equal(t, "Reset Link Issue", v.Title)
	assert.Contains(t, v.AppURL, "error=access_denied")
	assert.Contains(t, v.AppURL, "error_description=Link+expired")
	assert.True(t, v.AutoAttempt)
	assert.Equal(t, int64(1500), v.AttemptDelayMs)
	assert.True(t, v.Help.Steps)
	assert.Len(t, v.Help.Lines, 5)
}

func TestResolve_WeChatTokenIsCopyMode(t *testing.T) {
	b := newTestBridge()
	params := ParseParams(mustQuery(t, "token=tok"), "")

	v := b.Resolve(params, uaWeChat, "")

	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, handoff.EmbeddingWeChat, v.Environment)
	assert.Equal(t, "cc.swaply.app://reset-password?token=tok&type=recovery", v.AppURL)
	assert.False(t, v.AutoAttempt, "restricted browsers never auto-attempt")
	assert.Zero(t, v.AttemptDelayMs)
	assert.True(t, v.CopyMode)
	assert.Equal(t, "Safari", v.SystemBrowser)
	assert.Equal(t, "Please copy the link and open it in Safari to continue.", v.Message)
	assert.Equal(t, "Copy Link & Open in Browser", v.ButtonLabel)
	assert.Equal(t, "Open in Safari", v.OpenInLabel)
	assert.Equal(t, int64(2000), v.OpenInDelayMs)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "WeChat Detected", v.Notice.Title)
}

func TestResolve_QQMailOnAndroidPastesIntoChrome(t *testing.T) {
	v := newTestBridge().Resolve(ParseParams(mustQuery(t, "code=c"), ""), uaQQMail, "en-US")

	assert.Equal(t, handoff.EmbeddingQQMail, v.Environment)
	assert.Equal(t, "Chrome", v.SystemBrowser)
	assert.Equal(t, "Open in Chrome", v.OpenInLabel)
	assert.Equal(t, "Now paste it in Chrome to open the app.", v.CopiedMessage)
	assert.Equal(t, "QQ Mail Detected", v.Notice.Title)
}

func TestResolve_ErrorTakesPrecedence(t *testing.T) {
	b := newTestBridge()
	params := ParseParams(mustQuery(t, "code=abc123&type=recovery&error_code=otp_expired"), "")

	v := b.Resolve(params, uaSafari, "")

	assert.Equal(t, StateErrorDetected, v.State)
	assert.Equal(t, "cc.swaply.app://reset-password?error=otp_expired", v.AppURL)
	assert.NotContains(t, v.AppURL, "abc123")
	assert.Equal(t, "This reset link has expired or is invalid. Please request a new one from the app.", v.Message)
}

func TestResolve_MissingCredentialNeverReady(t *testing.T) {
	b := newTestBridge()

	for _, tc := range []struct {
		query    string
		fragment string
	}{
		{"", ""},
		{"type=recovery", ""},
		{"", "refresh_token=r&type=recovery"},
		{"code=&token=", "access_token="},
	} {
		params := ParseParams(mustQuery(t, tc.query), tc.fragment)
		assert.True(t, errors.Is(params.Err(), ErrMissingCredential), "%+v", tc)

		for _, ua := range []string{uaSafari, uaWeChat} {
			v := b.Resolve(params, ua, "")
			assert.Equal(t, StateMissingCredential, v.State)
			assert.Equal(t,
				"cc.swaply.app://reset-password?error=no_token&error_description=Token+not+found+in+reset+link",
				v.AppURL)
			assert.True(t, strings.HasPrefix(v.Message, "No reset token found."))
			assert.Equal(t, int64(1500), v.AttemptDelayMs)
		}
	}
}

func TestResolve_FragmentCredentials(t *testing.T) {
	params := ParseParams(url.Values{}, "#access_token=at&refresh_token=rt&type=recovery")
	v := newTestBridge().Resolve(params, uaSafari, "")

	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, "cc.swaply.app://reset-password?token=at&type=recovery&refresh_token=rt", v.AppURL)
}

func TestResolve_SloppyFragment(t *testing.T) {
	b := newTestBridge()

	tests := []struct {
		name     string
		fragment string
		state    State
		appURL   string
	}{
		{
			name:     "provider error with a stray percent",
			fragment: "error=access_denied&error_description=Link+expired+100%",
			state:    StateErrorDetected,
			appURL:   "cc.swaply.app://reset-password?error=access_denied&error_description=Link+expired+100%25",
		},
		{
			name:     "token next to an undecodable pair",
			fragment: "access_token=tok123&refresh_token=r1&type=recovery&junk=%zz",
			state:    StateReady,
			appURL:   "cc.swaply.app://reset-password?token=tok123&type=recovery&refresh_token=r1",
		},
		{
			name:     "token next to a semicolon",
			fragment: "access_token=tok123&type=recovery;x=1",
			state:    StateReady,
			appURL:   "cc.swaply.app://reset-password?token=tok123&type=recovery%3Bx%3D1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := b.Resolve(ParseParams(url.Values{}, tt.fragment), uaSafari, "en")
			assert.Equal(t, tt.state, v.State)
			assert.Equal(t, tt.appURL, v.AppURL)
		})
	}
}

func TestResolve_ChineseBrowser(t *testing.T) {
	v := newTestBridge().Resolve(ParseParams(url.Values{}, ""), uaWeChat, "zh-CN,zh;q=0.9,en;q=0.8")

	assert.Equal(t, "zh", v.Lang)
	assert.Equal(t, "返回应用", v.ButtonLabel)
}

func TestUnresolvedMatchesMissingCredential(t *testing.T) {
	b := newTestBridge()

	for _, ua := range []string{uaSafari, uaWeChat} {
		assert.Equal(t, b.Resolve(ParseParams(url.Values{}, ""), ua, "zh-CN"), b.Unresolved(ua, "zh-CN"))
	}

	v := b.Unresolved(uaSafari, "")
	assert.Equal(t, StateMissingCredential, v.State)
	assert.True(t, v.AutoAttempt)
	assert.Contains(t, v.AppURL, "error=no_token")
}

func TestParsingView(t *testing.T) {
	v := newTestBridge().Parsing("")
	assert.Equal(t, StateParsing, v.State)
	assert.Equal(t, "Verifying your reset link...", v.Message)
	assert.Empty(t, v.AppURL)
}
