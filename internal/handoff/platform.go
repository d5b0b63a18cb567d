package handoff

import (
	"regexp"
	"strings"
)

// Platform is the coarse device class that decides the transfer mechanism.
type Platform int

const (
	PlatformOther Platform = iota
	PlatformIOS
	PlatformAndroid
)

var (
	iosPattern     = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
	androidPattern = regexp.MustCompile(`(?i)Android`)
)

// ClassifyPlatform is a pure, total function of the user-agent.
// iOS wins when a UA advertises both (some tablets do).
func ClassifyPlatform(userAgent string) Platform {
	switch {
	case iosPattern.MatchString(userAgent):
		return PlatformIOS
	case androidPattern.MatchString(userAgent):
		return PlatformAndroid
	default:
		return PlatformOther
	}
}

// IsMobile reports whether a native path exists for the platform.
func (p Platform) IsMobile() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

func (p Platform) String() string {
	switch p {
	case PlatformIOS:
		return "ios"
	case PlatformAndroid:
		return "android"
	default:
		return "other"
	}
}

func (p Platform) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Embedding identifies a third-party in-app browser that blocks custom-scheme
// navigation.
type Embedding int

const (
	EmbeddingNone Embedding = iota
	EmbeddingWeChat
	EmbeddingQQ
	EmbeddingQQMail
	EmbeddingDingTalk
)

// ClassifyEmbedding inspects the lowercased UA. QQ Mail is checked before
// WeChat and QQ because its UA also carries the generic QQ marker.
func ClassifyEmbedding(userAgent string) Embedding {
	ua := strings.ToLower(userAgent)

	isWeChat := strings.Contains(ua, "micromessenger")
	switch {
	case strings.Contains(ua, "qqmail"):
		return EmbeddingQQMail
	case isWeChat:
		return EmbeddingWeChat
	case strings.Contains(ua, "qq/"):
		return EmbeddingQQ
	case strings.Contains(ua, "dingtalk"):
		return EmbeddingDingTalk
	default:
		return EmbeddingNone
	}
}

// Restricted reports whether the embedding browser is known to silently drop
// custom-scheme navigations.
func (e Embedding) Restricted() bool { return e != EmbeddingNone }

// Label is the human-facing name shown in the "X detected" notice.
func (e Embedding) Label() string {
	switch e {
	case EmbeddingWeChat:
		return "WeChat"
	case EmbeddingQQ:
		return "QQ"
	case EmbeddingQQMail:
		return "QQ Mail"
	case EmbeddingDingTalk:
		return "DingTalk"
	default:
		return ""
	}
}

func (e Embedding) String() string {
	switch e {
	case EmbeddingWeChat:
		return "wechat"
	case EmbeddingQQ:
		return "qq"
	case EmbeddingQQMail:
		return "qqmail"
	case EmbeddingDingTalk:
		return "dingtalk"
	default:
		return "none"
	}
}

func (e Embedding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// SystemBrowser names the browser a visitor should paste a copied link into.
func SystemBrowser(userAgent string) string {
	switch ClassifyPlatform(userAgent) {
	case PlatformIOS:
		return "Safari"
	case PlatformAndroid:
		return "Chrome"
	default:
		return "your system browser"
	}
}
