package game

import (
	"net/url"
	"strings"
)

// WhatsAppURL returns a wa.me link that prefills text.
func WhatsAppURL(text string) string {
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

// FacebookURL returns a sharer link. The shared page is the last word of
// text when it looks like a link, otherwise href.
func FacebookURL(text, href string) string {
	u := href
	if fields := strings.Fields(text); len(fields) > 0 {
		last := fields[len(fields)-1]
		if strings.HasPrefix(last, "http://") || strings.HasPrefix(last, "https://") {
			u = last
		}
	}
	return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(u) +
		"&quote=" + url.QueryEscape(text)
}

// SharePlatform is a share target on the end card.
type SharePlatform struct {
	ID   string // also the i18n key suffix, "share.<ID>"
	Name string
}

// SharePlatforms lists the share targets the end card offers, in order.
var SharePlatforms = []SharePlatform{
	{ID: "whatsapp", Name: "WhatsApp"},
	{ID: "instagram", Name: "Instagram"},
	{ID: "facebook", Name: "Facebook"},
}

// ShareURL returns the link for platform, or "" when the platform has no
// link (instagram copies the text instead).
func ShareURL(platform, text, href string) string {
	switch platform {
	case "whatsapp":
		return WhatsAppURL(text)
	case "facebook":
		return FacebookURL(text, href)
	}
	return ""
}
