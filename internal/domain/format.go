package domain

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultImage is the placeholder for listings without pictures.
const DefaultImage = "/og.png"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders "$" and a grouped whole amount. Empty prices are "$0",
// non-numeric prices are shown verbatim.
func FormatPrice(p Price) string {
	if p == "" {
		return "$0"
	}
	f, ok := p.Float()
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return string(p)
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + pricePrinter.Sprint(number.Decimal(math.Round(f), number.MaxFractionDigits(0)))
}

// TimeAgo renders a coarse age, "" for a zero time. Future times count as now.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	m := int(diff / time.Minute)
	if m < 60 {
		return plural(m, "min")
	}
	h := m / 60
	if h < 24 {
		return plural(h, "hour")
	}
	days := h / 24
	if days < 30 {
		return plural(days, "day")
	}
	months := days / 30
	if months < 12 {
		return plural(months, "month")
	}
	return plural(months/12, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Pictures returns ImageURLs when set, else Images, without empty entries.
func (l *Listing) Pictures() []string {
	src := l.ImageURLs
	if len(src) == 0 {
		src = l.Images
	}
	out := make([]string, 0, len(src))
	for _, s := range src {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Cover is the first picture or DefaultImage.
func (l *Listing) Cover() string {
	if pics := l.Pictures(); len(pics) > 0 {
		return pics[0]
	}
	return DefaultImage
}

// DisplayTitle falls back to "Listing" for untitled records.
func (l *Listing) DisplayTitle() string {
	if l.Title == "" {
		return "Listing"
	}
	return l.Title
}
