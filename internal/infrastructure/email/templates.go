// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Template names, each backed by a .html and a .txt file under templates/.
const (
	TemplateLiveClassReminder   = "live_class_reminder"
	TemplateLiveClassInvitation = "live_class_invitation"
	TemplateRecordingReady      = "recording_ready"
)

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// LiveClassTemplateManager defines the interface for rendering live class email templates
type LiveClassTemplateManager interface {
	RenderReminder(data domain.EmailReminder) (*RenderedEmail, error)
	RenderInvitation(data domain.EmailInvitation) (*RenderedEmail, error)
	RenderRecordingReady(data domain.EmailRecordingReady) (*RenderedEmail, error)
}

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *texttemplate.Template
}

// TemplateManager is the default implementation of LiveClassTemplateManager
type TemplateManager struct {
	templates map[string]TemplateSet
}

// Ensure TemplateManager implements LiveClassTemplateManager
var _ LiveClassTemplateManager = (*TemplateManager)(nil)

// NewTemplateManager creates a new template manager with all templates loaded
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]TemplateSet)}

	for _, name := range []string{TemplateLiveClassReminder, TemplateLiveClassInvitation, TemplateRecordingReady} {
		set, err := loadTemplateSet(name)
		if err != nil {
			return nil, err
		}
		tm.templates[name] = set
	}

	return tm, nil
}

// RenderReminder renders the same-day reminder email
func (tm *TemplateManager) RenderReminder(data domain.EmailReminder) (*RenderedEmail, error) {
	return tm.render(TemplateLiveClassReminder, data)
}

// RenderInvitation renders the calendar invitation email
func (tm *TemplateManager) RenderInvitation(data domain.EmailInvitation) (*RenderedEmail, error) {
	return tm.render(TemplateLiveClassInvitation, data)
}

// RenderRecordingReady renders the recording uploaded email
func (tm *TemplateManager) RenderRecordingReady(data domain.EmailRecordingReady) (*RenderedEmail, error) {
	return tm.render(TemplateRecordingReady, data)
}

func (tm *TemplateManager) render(name string, data any) (*RenderedEmail, error) {
	set, ok := tm.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	var html bytes.Buffer
	if err := set.HTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render %s HTML: %w", name, err)
	}

	var text bytes.Buffer
	if err := set.Text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render %s text: %w", name, err)
	}

	return &RenderedEmail{HTML: html.String(), Text: text.String()}, nil
}

// loadTemplateSet parses the HTML and text variants of a template with the
// shared function map.
func loadTemplateSet(name string) (TemplateSet, error) {
	funcs := map[string]any{
		"formatTime":         formatTime,
		"formatDuration":     formatDuration,
		"formatSeconds":      formatSeconds,
		"newLineToBreakLine": newLineToBreakLine,
	}

	htmlFile := name + ".html"
	htmlTmpl, err := template.New(htmlFile).Funcs(funcs).ParseFS(templateFS, "templates/"+htmlFile)
	if err != nil {
		return TemplateSet{}, fmt.Errorf("failed to parse %s template: %w", htmlFile, err)
	}

	textFile := name + ".txt"
	textTmpl, err := texttemplate.New(textFile).Funcs(funcs).ParseFS(templateFS, "templates/"+textFile)
	if err != nil {
		return TemplateSet{}, fmt.Errorf("failed to parse %s template: %w", textFile, err)
	}

	return TemplateSet{HTML: htmlTmpl, Text: textTmpl}, nil
}

// formatTime formats a time for display in emails
func formatTime(t time.Time, timezone string) string {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		// Fall back to UTC if timezone is invalid
		loc = time.UTC
		timezone = "UTC"
	}

	localTime := t.In(loc)

	day := localTime.Day()
	var suffix string
	switch {
	case day >= 11 && day <= 13:
		suffix = "th"
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	default:
		suffix = "th"
	}

	// Format: Wednesday, September 15th, 10:30 Africa/Johannesburg
	return fmt.Sprintf("%s, %s %d%s, %s %s",
		localTime.Format("Monday"),
		localTime.Format("January"),
		day,
		suffix,
		localTime.Format("15:04"),
		timezone)
}

// formatDuration formats duration in minutes to a human-readable string
func formatDuration(minutes int) string {
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := minutes / 60
	remainingMinutes := minutes % 60

	hourLabel := "hours"
	if hours == 1 {
		hourLabel = "hour"
	}
	if remainingMinutes == 0 {
		return fmt.Sprintf("%d %s", hours, hourLabel)
	}

	minuteLabel := "minutes"
	if remainingMinutes == 1 {
		minuteLabel = "minute"
	}
	return fmt.Sprintf("%d %s %d %s", hours, hourLabel, remainingMinutes, minuteLabel)
}

// formatSeconds formats a recording length, rounding down to whole minutes
// once it reaches one minute.
func formatSeconds(seconds *int64) string {
	if seconds == nil {
		return ""
	}
	if *seconds < 60 {
		if *seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", *seconds)
	}
	return formatDuration(int(*seconds / 60))
}

// newLineToBreakLine converts newlines to HTML break tags for proper email formatting
func newLineToBreakLine(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	replaced := strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(replaced)
}
