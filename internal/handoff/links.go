package handoff

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultScheme       = "cc.swaply.app"
	DefaultPackage      = "cc.swaply.app"
	DefaultDownloadPath = "/download"
)

// ErrNavigation marks a local failure building or issuing a native navigation.
// It is always resolved to the download fallback, never shown to the visitor.
var ErrNavigation = errors.New("handoff: navigation failed")

// Links builds every URL the bridge hands to a browser.
type Links struct {
	Scheme       string // custom URL scheme registered by the app, without "://"
	Package      string // Android application id
	SiteURL      string // absolute site origin, ex: https://swaply.cc
	DownloadPath string // relative download page path
}

// NewLinks fills empty fields with the production defaults.
func NewLinks(siteURL string) Links {
	return Links{
		Scheme:       DefaultScheme,
		Package:      DefaultPackage,
		SiteURL:      strings.TrimRight(siteURL, "/"),
		DownloadPath: DefaultDownloadPath,
	}
}

// Host is the site host used as intent authority.
func (l Links) Host() string {
	u, err := url.Parse(l.SiteURL)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(l.SiteURL, "https://"), "http://")
	}
	return u.Host
}

// DownloadURL is the absolute form of the download page.
func (l Links) DownloadURL() string {
	return l.SiteURL + l.DownloadPath
}

// ListingURL is the public https page of a listing.
func (l Links) ListingURL(id string) string {
	return l.SiteURL + "/l/" + EncodeComponent(id)
}

// ListingSchemeURL opens a listing through the custom scheme (iOS path).
func (l Links) ListingSchemeURL(id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	return l.Scheme + "://listing?id=" + EncodeComponent(id), nil
}

// IntentURL opens a listing through an Android intent. The OS itself opens the
// embedded fallback when the package is not installed.
func (l Links) IntentURL(id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	host := l.Host()
	if host == "" {
		return "", fmt.Errorf("%w: site host is empty", ErrNavigation)
	}
	return "intent://" + host + "/l/" + EncodeComponent(id) +
		"#Intent;scheme=https;package=" + l.Package +
		";S.browser_fallback_url=" + EncodeComponent(l.DownloadURL()) +
		";end", nil
}

// LoginCallbackURL forwards the OAuth redirect verbatim onto the app scheme.
// rawQuery and fragment are passed through without their leading '?' / '#'.
func (l Links) LoginCallbackURL(rawQuery, fragment string) string {
	var b strings.Builder
	b.WriteString(l.Scheme)
	b.WriteString("://login-callback")
	if rawQuery != "" {
		b.WriteByte('?')
		b.WriteString(rawQuery)
	}
	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String()
}

// ResetPasswordURL builds cc.swaply.app://reset-password with params in the
// given order.
func (l Links) ResetPasswordURL(params ...Param) string {
	return l.Scheme + "://reset-password?" + EncodeParams(params...)
}

// Param is an ordered query pair. url.Values sorts keys, the app expects the
// credential first.
type Param struct {
	Key   string
	Value string
}

// EncodeParams encodes pairs form-style (spaces become '+'), skipping empty values.
func EncodeParams(params ...Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// EncodeComponent matches JavaScript's encodeURIComponent for the characters
// that matter here: spaces are %20, reserved characters are escaped.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty target id", ErrNavigation)
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character in target id", ErrNavigation)
		}
	}
	return nil
}
