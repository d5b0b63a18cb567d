package resetbridge

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
)

// DefaultType is the reset link type assumed when neither location carries one.
const DefaultType = "recovery"

var (
	// ErrProvider is an explicit error reported by the identity provider on the
	// reset link (expired, already used, denied...).
	ErrProvider = errors.New("resetbridge: provider reported an error")

	// ErrMissingCredential means the link carried neither a code nor a token.
	ErrMissingCredential = errors.New("resetbridge: no_token")
)

// Params are the reset link parameters, extracted once from the query string
// and the URL fragment. Empty strings mean absent.
type Params struct {
	Code             string
	Token            string
	RefreshToken     string
	Type             string
	Error            string
	ErrorCode        string
	ErrorDescription string
}

// ParseParams merges the query and the fragment. The fragment is given with or
// without its leading '#'.
//
// Code comes from the query only. Token is the query token, else the fragment
// access_token. The refresh token only ever travels in the fragment.
func ParseParams(query url.Values, fragment string) Params {
	frag := parseFragment(fragment)

	p := Params{
		Code:             query.Get("code"),
		Token:            firstNonEmpty(query.Get("token"), frag.Get("access_token")),
		RefreshToken:     frag.Get("refresh_token"),
		Type:             firstNonEmpty(query.Get("type"), frag.Get("type"), DefaultType),
		Error:            firstNonEmpty(query.Get("error"), frag.Get("error")),
		ErrorCode:        firstNonEmpty(query.Get("error_code"), frag.Get("error_code")),
		ErrorDescription: firstNonEmpty(query.Get("error_description"), frag.Get("error_description")),
	}
	return p
}

// Err classifies the parameters. Provider errors take precedence over
// everything, including a present credential.
func (p Params) Err() error {
	if p.Error != "" || p.ErrorCode != "" {
		return fmt.Errorf("%w: %s", ErrProvider, firstNonEmpty(p.Error, p.ErrorCode))
	}
	if p.Code == "" && p.Token == "" {
		return ErrMissingCredential
	}
	return nil
}

// Credential returns the parameter the app should receive: code (PKCE flow)
// is preferred over token (email flow).
func (p Params) Credential() (key, value string) {
	if p.Code != "" {
		return "code", p.Code
	}
	if p.Token != "" {
		return "token", p.Token
	}
	return "", ""
}

// AppParams are the ordered parameters forwarded onto the reset-password
// scheme URL for the resolved state.
func (p Params) AppParams() []handoff.Param {
	switch err := p.Err(); {
	case errors.Is(err, ErrProvider):
		return []handoff.Param{
			{Key: "error", Value: firstNonEmpty(p.Error, p.ErrorCode, "unknown")},
			{Key: "error_description", Value: p.ErrorDescription},
		}
	case errors.Is(err, ErrMissingCredential):
		return []handoff.Param{
			{Key: "error", Value: "no_token"},
			{Key: "error_description", Value: "Token not found in reset link"},
		}
	}

	key, value := p.Credential()
	return []handoff.Param{
		{Key: key, Value: value},
		{Key: "type", Value: p.Type},
		{Key: "refresh_token", Value: p.RefreshToken},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseFragment decodes the fragment the way browsers decode URLSearchParams:
// pairs split on '&' only, '+' is a space, and an invalid escape is kept as
// written instead of dropping the pair. One bad pair never hides the others.
func parseFragment(fragment string) url.Values {
	vals := url.Values{}
	for _, pair := range strings.Split(strings.TrimPrefix(fragment, "#"), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		vals.Add(decodeLenient(key), decodeLenient(value))
	}
	return vals
}

func decodeLenient(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
