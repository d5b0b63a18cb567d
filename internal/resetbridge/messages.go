package resetbridge

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English text.
const (
	msgVerifying        = "Verifying your reset link..."
	msgTitle            = "Swaply"
	msgErrorTitle       = "Reset Link Issue"
	msgDefaultError     = "This reset link has expired or is invalid."
	msgRequestNew       = "%s Please request a new one from the app."
	msgNoToken          = "No reset token found. Please click \"Forgot Password\" in the app to get a new reset link."
	msgReturnToApp      = "Return to App"
	msgOpening          = "Opening Swaply app..."
	msgOpeningButton    = "Opening..."
	msgOpenApp          = "Open Swaply App"
	msgRetryButton      = "Tap here if app did not open"
	msgRetryMessage     = "If the app did not open automatically, tap the button below."
	msgCopyMessage      = "Please copy the link and open it in %s to continue."
	msgCopyButton       = "Copy Link & Open in Browser"
	msgCopied           = "✓ Link Copied!"
	msgPasteIn          = "Now paste it in %s to open the app."
	msgOpenIn           = "Open in %s"
	msgEnvDetected      = "%s Detected"
	msgEnvBody          = "This app cannot open external links directly. Please copy the link and paste it in %s."
	msgHelpErrorTitle   = "To request a new reset link:"
	msgHelpStep1        = "Open the Swaply app"
	msgHelpStep2        = "Go to Login screen"
	msgHelpStep3        = "Tap Forgot Password"
	msgHelpStep4        = "Enter your email"
	msgHelpStep5        = "Open the new link on this device"
	msgHelpEnvTitle     = "Why do I need to use %s?"
	msgHelpEnvBody      = "%s uses a restricted browser that cannot automatically open apps. Opening the link in %s will work perfectly."
	msgHelpDefaultLine1 = "This page verifies your password reset link"
	msgHelpDefaultLine2 = "and opens it in the Swaply app."
)

var supported = []language.Tag{language.English, language.Chinese}

var translations = map[string]string{
	msgVerifying:        "正在验证您的重置链接...",
	msgErrorTitle:       "重置链接有问题",
	msgDefaultError:     "此重置链接已过期或无效。",
	msgRequestNew:       "%s 请在应用中重新申请。",
	msgNoToken:          "未找到重置令牌。请在应用中点击“忘记密码”获取新的重置链接。",
	msgReturnToApp:      "返回应用",
	msgOpening:          "正在打开 Swaply 应用...",
	msgOpeningButton:    "正在打开...",
	msgOpenApp:          "打开 Swaply 应用",
	msgRetryButton:      "如果应用未打开，请点击这里",
	msgRetryMessage:     "如果应用没有自动打开，请点击下方按钮。",
	msgCopyMessage:      "请复制链接并在 %s 中打开以继续。",
	msgCopyButton:       "复制链接并在浏览器中打开",
	msgCopied:           "✓ 链接已复制！",
	msgPasteIn:          "现在请将其粘贴到 %s 中以打开应用。",
	msgOpenIn:           "在 %s 中打开",
	msgEnvDetected:      "检测到%s",
	msgEnvBody:          "此应用无法直接打开外部链接。请复制链接并粘贴到 %s 中。",
	msgHelpErrorTitle:   "重新申请重置链接：",
	msgHelpStep1:        "打开 Swaply 应用",
	msgHelpStep2:        "进入登录页面",
	msgHelpStep3:        "点击“忘记密码”",
	msgHelpStep4:        "输入您的邮箱",
	msgHelpStep5:        "在本设备上打开新链接",
	msgHelpEnvTitle:     "为什么需要使用 %s？",
	msgHelpEnvBody:      "%s 使用受限浏览器，无法自动打开应用。在 %s 中打开链接即可正常使用。",
	msgHelpDefaultLine1: "此页面会验证您的密码重置链接",
	msgHelpDefaultLine2: "并在 Swaply 应用中打开。",
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, zh := range translations {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
		if err := b.SetString(language.Chinese, key, zh); err != nil {
			panic(err)
		}
	}
	return b
}

// MatchLanguage picks the page language from an Accept-Language header.
// Anything that is not Chinese renders in English.
func MatchLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return language.English
	}
	for _, t := range tags {
		base, _ := t.Base()
		for _, s := range supported {
			if sb, _ := s.Base(); sb == base {
				return s
			}
		}
	}
	return language.English
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
