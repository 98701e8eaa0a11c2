// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"fmt"
	"strings"
	"time"
)

// ICS constants for consistent values across all generated ICS files
const (
	ICSProdID         = "-//Linux Foundation//LFX Live Class Service//EN"
	ICALVersion       = "2.0"
	ICALScale         = "GREGORIAN"
	ICALMaxLineLength = 75
	ICSContentType    = "text/calendar; charset=utf-8; method=REQUEST"
)

// Default organizer used when a class has no host.
const (
	OrganizerEmail = "noreply@linuxfoundation.org"
	OrganizerName  = "LFX Live Classes"
)

// UTF-8 byte masks for line folding safety
const (
	UTF8TwoBitMask         = 0xC0 // Mask to isolate first two bits (11000000)
	UTF8ContinuationPrefix = 0x80 // UTF-8 continuation byte prefix (10000000)
)

const icsTimeLayout = "20060102T150405"

// LiveClassICSGenerator is the interface for generating live class calendar files
type LiveClassICSGenerator interface {
	GenerateLiveClassInvitationICS(params ICSLiveClassInvitationParams) (string, error)
}

// ICSGenerator generates ICS (iCalendar) files for live class invitations
type ICSGenerator struct {
	now func() time.Time
}

// NewICSGenerator creates a new ICS generator
func NewICSGenerator() *ICSGenerator {
	return &ICSGenerator{now: time.Now}
}

// Ensure [ICSGenerator] implements [LiveClassICSGenerator]
var _ LiveClassICSGenerator = (*ICSGenerator)(nil)

// ICSLiveClassInvitationParams contains the information needed to generate
// the calendar invitation of a live class.
type ICSLiveClassInvitationParams struct {
	EventUID        string // Stable event identifier, reused by later updates
	Title           string
	Description     string
	StartTime       time.Time
	DurationMinutes int
	Timezone        string
	JoinLink        string
	OrganizerEmail  string
	OrganizerName   string
	RecipientEmail  string
	RecipientName   string
	Sequence        int
}

// GenerateLiveClassInvitationICS generates the ICS content of a live class invitation
func (g *ICSGenerator) GenerateLiveClassInvitationICS(params ICSLiveClassInvitationParams) (string, error) {
	if params.EventUID == "" {
		return "", fmt.Errorf("event uid is required")
	}
	if params.Timezone == "" {
		params.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(params.Timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", params.Timezone, err)
	}

	organizerEmail, organizerName := params.OrganizerEmail, params.OrganizerName
	if organizerEmail == "" {
		organizerEmail, organizerName = OrganizerEmail, OrganizerName
	}
	if organizerName == "" {
		organizerName = organizerEmail
	}

	startLocal := params.StartTime.In(loc)
	endLocal := startLocal.Add(time.Duration(params.DurationMinutes) * time.Minute)

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString(fmt.Sprintf("VERSION:%s\r\n", ICALVersion))
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", ICSProdID))
	ics.WriteString(fmt.Sprintf("CALSCALE:%s\r\n", ICALScale))
	ics.WriteString("METHOD:REQUEST\r\n")

	ics.WriteString(generateTimezoneDefinition(params.Timezone))

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s\r\n", params.EventUID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", g.now().UTC().Format(icsTimeLayout+"Z")))
	ics.WriteString(foldICSLine(fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", escapeICSParam(organizerName), organizerEmail), ICALMaxLineLength) + "\r\n")
	ics.WriteString(fmt.Sprintf("DTSTART;TZID=%s:%s\r\n", params.Timezone, startLocal.Format(icsTimeLayout)))
	ics.WriteString(fmt.Sprintf("DTEND;TZID=%s:%s\r\n", params.Timezone, endLocal.Format(icsTimeLayout)))
	ics.WriteString(foldICSLine("SUMMARY:"+escapeICSText(params.Title), ICALMaxLineLength) + "\r\n")
	ics.WriteString(foldICSLine("DESCRIPTION:"+escapeICSText(params.Description), ICALMaxLineLength) + "\r\n")

	if params.JoinLink != "" {
		ics.WriteString(foldICSLine("LOCATION:"+params.JoinLink, ICALMaxLineLength) + "\r\n")
		ics.WriteString(foldICSLine("URL:"+params.JoinLink, ICALMaxLineLength) + "\r\n")
	}

	if params.RecipientEmail != "" {
		cn := params.RecipientName
		if cn == "" {
			cn = params.RecipientEmail
		}
		ics.WriteString(foldICSLine(fmt.Sprintf("ATTENDEE;CUTYPE=INDIVIDUAL;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;RSVP=TRUE;CN=%s:mailto:%s",
			escapeICSParam(cn), params.RecipientEmail), ICALMaxLineLength) + "\r\n")
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString(fmt.Sprintf("SEQUENCE:%d\r\n", params.Sequence))

	ics.WriteString("BEGIN:VALARM\r\n")
	ics.WriteString("TRIGGER:-PT10M\r\n")
	ics.WriteString("ACTION:DISPLAY\r\n")
	ics.WriteString(foldICSLine("DESCRIPTION:Reminder: "+escapeICSText(params.Title), ICALMaxLineLength) + "\r\n")
	ics.WriteString("END:VALARM\r\n")

	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String(), nil
}

// generateTimezoneDefinition generates a minimal VTIMEZONE component that
// points calendar clients at their own tz database entry.
func generateTimezoneDefinition(tzid string) string {
	var tz strings.Builder
	tz.WriteString("BEGIN:VTIMEZONE\r\n")
	tz.WriteString(fmt.Sprintf("TZID:%s\r\n", tzid))
	tz.WriteString(fmt.Sprintf("X-LIC-LOCATION:%s\r\n", tzid))
	tz.WriteString("END:VTIMEZONE\r\n")
	return tz.String()
}

// escapeICSText escapes special characters in ICS text fields (RFC 5545 3.3.11)
func escapeICSText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\\n")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, ";", "\\;")
	return text
}

// escapeICSParam quotes a parameter value when it contains separators.
func escapeICSParam(value string) string {
	value = strings.ReplaceAll(value, "\"", "'")
	if strings.ContainsAny(value, ":;,") {
		return "\"" + value + "\""
	}
	return value
}

// foldICSLine folds long lines according to RFC5545 (75 octets max)
func foldICSLine(line string, maxLength int) string {
	if len(line) <= maxLength {
		return line
	}

	var folded strings.Builder
	remaining := line
	first := true

	for len(remaining) > 0 {
		cutLength := maxLength
		if !first {
			cutLength = maxLength - 1 // Account for leading space on continued lines
		}

		if len(remaining) <= cutLength {
			if !first {
				folded.WriteString("\r\n ")
			}
			folded.WriteString(remaining)
			break
		}

		// Find a safe place to break (not in the middle of a UTF-8 sequence)
		breakPoint := cutLength
		for breakPoint > 0 && remaining[breakPoint]&UTF8TwoBitMask == UTF8ContinuationPrefix {
			breakPoint--
		}

		if !first {
			folded.WriteString("\r\n ")
		}
		folded.WriteString(remaining[:breakPoint])
		remaining = remaining[breakPoint:]
		first = false
	}

	return folded.String()
}
