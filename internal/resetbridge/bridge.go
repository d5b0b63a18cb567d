package resetbridge

import (
	"errors"
	"time"

	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// State of the reset bridge page.
type State string

const (
	StateParsing           State = "parsing"
	StateErrorDetected     State = "error"
	StateMissingCredential State = "missing_credential"
	StateReady             State = "ready"
)

// Notice is the banner shown above the card inside restricted browsers.
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Help is the text block at the bottom of the card.
type Help struct {
	Title string   `json:"title,omitempty"`
	Lines []string `json:"lines"`
	Steps bool     `json:"steps"`
}

// View is everything the reset page renders and executes. Every state uses the
// same shell: icon, title, message, one button, help text.
type View struct {
	State       State             `json:"state"`
	Environment handoff.Embedding `json:"environment"`
	IsError     bool              `json:"isError"`
	Lang        string            `json:"lang"`

	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	ButtonLabel string  `json:"buttonLabel"`
	Help        Help    `json:"help"`
	Notice      *Notice `json:"notice,omitempty"`

	AppURL string `json:"appUrl,omitempty"`

	// AutoAttempt schedules one navigation to AppURL AttemptDelayMs after render.
	AutoAttempt    bool  `json:"autoAttempt"`
	AttemptDelayMs int64 `json:"attemptDelayMs,omitempty"`

	// Relabel after RetryDelayMs more if the page is still visible.
	RetryDelayMs int64  `json:"retryDelayMs,omitempty"`
	RetryLabel   string `json:"retryLabel,omitempty"`
	RetryMessage string `json:"retryMessage,omitempty"`

	// CopyMode turns the button into a copy-to-clipboard control. After a copy
	// the button reads CopiedLabel, then OpenInLabel OpenInDelayMs later.
	CopyMode      bool   `json:"copyMode"`
	CopiedLabel   string `json:"copiedLabel,omitempty"`
	CopiedMessage string `json:"copiedMessage,omitempty"`
	OpenInLabel   string `json:"openInLabel,omitempty"`
	OpenInDelayMs int64  `json:"openInDelayMs,omitempty"`
	SystemBrowser string `json:"systemBrowser,omitempty"`
}

// copiedLabelHold is how long "Link Copied" stays before the button names the
// system browser.
const copiedLabelHold = 2 * time.Second

// Bridge resolves reset link parameters into a page view.
type Bridge struct {
	links   handoff.Links
	timings handoff.Timings
	logger  logger.Logger
}

func NewBridge(links handoff.Links, timings handoff.Timings, log logger.Logger) *Bridge {
	return &Bridge{links: links, timings: timings, logger: log}
}

// Parsing is the view served before the parameters are known (fragment
// parameters only exist in the browser).
func (b *Bridge) Parsing(acceptLanguage string) View {
	tag := MatchLanguage(acceptLanguage)
	p := newPrinter(tag)
	return View{
		State:       StateParsing,
		Lang:        tag.String(),
		Icon:        "🔐",
		Title:       p.Sprintf(msgTitle),
		Message:     p.Sprintf(msgVerifying),
		ButtonLabel: p.Sprintf(msgOpenApp),
		Help:        defaultHelp(tag),
	}
}

// Resolve is a pure function of the parameters and the request headers.
// ErrorDetected wins over everything, a missing credential never reaches Ready.
func (b *Bridge) Resolve(params Params, userAgent, acceptLanguage string) View {
	tag := MatchLanguage(acceptLanguage)
	p := newPrinter(tag)
	env := handoff.ClassifyEmbedding(userAgent)

	v := View{
		Environment: env,
		Lang:        tag.String(),
		AppURL:      b.links.ResetPasswordURL(params.AppParams()...),
	}

	err := params.Err()
	switch {
	case errors.Is(err, ErrProvider):
		b.logger.Info("reset link carries a provider error",
			logger.String("error", params.Error),
			logger.String("error_code", params.ErrorCode),
			logger.String("environment", env.String()))

		msg := firstNonEmpty(params.ErrorDescription, params.Error, p.Sprintf(msgDefaultError))
		v.State = StateErrorDetected
		v.Message = p.Sprintf(msgRequestNew, msg)
		return b.errorShell(v, tag)

	case errors.Is(err, ErrMissingCredential):
		b.logger.Warn("reset link without code or token",
			logger.String("environment", env.String()))

		return b.missingCredential(v, tag)
	}

	key, value := params.Credential()
	b.logger.Info("reset link ready",
		logger.String("credential", key),
		logger.Masked("value", value),
		logger.Bool("refresh_token", params.RefreshToken != ""),
		logger.String("type", params.Type),
		logger.String("environment", env.String()))

	v.State = StateReady
	v.Icon = "🔐"
	v.Title = p.Sprintf(msgTitle)

	if env.Restricted() {
		browser := handoff.SystemBrowser(userAgent)
		v.Message = p.Sprintf(msgCopyMessage, browser)
		v.ButtonLabel = p.Sprintf(msgCopyButton)
		v.CopyMode = true
		v.CopiedLabel = p.Sprintf(msgCopied)
		v.CopiedMessage = p.Sprintf(msgPasteIn, browser)
		v.OpenInLabel = p.Sprintf(msgOpenIn, browser)
		v.OpenInDelayMs = copiedLabelHold.Milliseconds()
		v.SystemBrowser = browser
		v.Notice = &Notice{
			Title: p.Sprintf(msgEnvDetected, env.Label()),
			Body:  p.Sprintf(msgEnvBody, browser),
		}
		v.Help = Help{
			Title: p.Sprintf(msgHelpEnvTitle, browser),
			Lines: []string{p.Sprintf(msgHelpEnvBody, env.Label(), browser)},
		}
		return v
	}

	v.Message = p.Sprintf(msgOpening)
	v.ButtonLabel = p.Sprintf(msgOpeningButton)
	v.AutoAttempt = true
	v.AttemptDelayMs = b.timings.AutoAttemptDelay.Milliseconds()
	v.RetryDelayMs = b.timings.RetryRelabelDelay.Milliseconds()
	v.RetryLabel = p.Sprintf(msgRetryButton)
	v.RetryMessage = p.Sprintf(msgRetryMessage)
	v.Help = defaultHelp(tag)
	return v
}

// Unresolved is the terminal view the page switches to when the fragment
// cannot be resolved: the same as a link without credential, so the page never
// stays on the parsing view.
func (b *Bridge) Unresolved(userAgent, acceptLanguage string) View {
	tag := MatchLanguage(acceptLanguage)
	v := View{
		Environment: handoff.ClassifyEmbedding(userAgent),
		Lang:        tag.String(),
		AppURL:      b.links.ResetPasswordURL(Params{}.AppParams()...),
	}
	return b.missingCredential(v, tag)
}

func (b *Bridge) missingCredential(v View, tag language.Tag) View {
	v.State = StateMissingCredential
	v.Message = newPrinter(tag).Sprintf(msgNoToken)
	return b.errorShell(v, tag)
}

// errorShell completes an error or missing-credential view: warning icon,
// "Return to App" control and a delayed single attempt so the app can show
// its own error screen.
func (b *Bridge) errorShell(v View, tag language.Tag) View {
	p := newPrinter(tag)
	v.IsError = true
	v.Icon = "⚠️"
	v.Title = p.Sprintf(msgErrorTitle)
	v.ButtonLabel = p.Sprintf(msgReturnToApp)
	v.AutoAttempt = true
	v.AttemptDelayMs = b.timings.ErrorAttemptDelay.Milliseconds()
	v.Help = Help{
		Title: p.Sprintf(msgHelpErrorTitle),
		Lines: []string{
			p.Sprintf(msgHelpStep1),
			p.Sprintf(msgHelpStep2),
			p.Sprintf(msgHelpStep3),
			p.Sprintf(msgHelpStep4),
			p.Sprintf(msgHelpStep5),
		},
		Steps: true,
	}
	return v
}

func defaultHelp(tag language.Tag) Help {
	p := newPrinter(tag)
	return Help{Lines: []string{p.Sprintf(msgHelpDefaultLine1), p.Sprintf(msgHelpDefaultLine2)}}
}
