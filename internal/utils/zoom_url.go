// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package utils holds small parsing helpers shared by the services.
package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// meetingPathPattern matches the join, web client and start paths of a Zoom
// meeting link and captures the numeric meeting id.
// Examples: /j/85012345678, /w/85012345678, /s/85012345678, /wc/join/85012345678
var meetingPathPattern = regexp.MustCompile(`^/(?:j|w|s|wc/join|wc)/(\d{9,11})/?$`)

// zoomDomains are the registrable domains serving Zoom meeting links.
var zoomDomains = []string{"zoom.us", "zoomgov.com"}

// IsZoomHost reports whether host is a Zoom domain or one of its vanity
// subdomains, such as "linuxfoundation.zoom.us".
func IsZoomHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, domain := range zoomDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// ExtractZoomMeetingID returns the numeric meeting id embedded in a Zoom
// meeting link. Query parameters such as the embedded passcode are ignored.
func ExtractZoomMeetingID(joinURL string) (string, bool) {
	if joinURL == "" {
		return "", false
	}

	parsed, err := url.Parse(strings.TrimSpace(joinURL))
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", false
	}
	if !IsZoomHost(parsed.Hostname()) {
		return "", false
	}

	match := meetingPathPattern.FindStringSubmatch(parsed.Path)
	if match == nil {
		return "", false
	}
	return match[1], true
}
