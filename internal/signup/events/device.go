package events

import (
	"strings"

	"github.com/mssola/useragent"
)

// DeviceLabel summarizes a User-Agent as "Browser on OS", with a "mobile"
// suffix for handsets. Crawlers are labelled "bot"; an empty header yields "".
func DeviceLabel(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	browser, _ := ua.Browser()
	label := browser
	if os := ua.OS(); os != "" {
		if label == "" {
			label = os
		} else {
			label += " on " + os
		}
	}
	if label == "" {
		label = "unknown"
	}
	if ua.Mobile() {
		label += " (mobile)"
	}
	return label
}
