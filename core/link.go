package core

import (
	"strings"
)

// NormalizeLink trims surrounding whitespace and prepends "https://" unless
// the link already has an http or https scheme. Whitespace-only input
// normalizes to the empty string, which means "not provided".
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		link = "https://" + link
	}
	return link
}
