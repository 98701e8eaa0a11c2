// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLiveClassReminder(ctx context.Context, reminder EmailReminder) error
	SendLiveClassInvitation(ctx context.Context, invitation EmailInvitation) error
	SendRecordingReady(ctx context.Context, notice EmailRecordingReady) error
}

// EmailReminder contains the data needed to send the same-day class reminder
type EmailReminder struct {
	RecipientEmail string
	RecipientName  string
	ClassTitle     string
	Date           string
	Time           string
	BatchTitle     string
}

// EmailInvitation contains the data needed to send a live class invitation
type EmailInvitation struct {
	RecipientEmail string
	RecipientName  string
	EventTitle     string
	StartTime      time.Time
	Duration       int // Duration in minutes
	Timezone       string
	Description    string
	JoinLink       string
	ICSAttachment  *EmailAttachment
}

// EmailRecordingReady tells a host that the class recording is available
type EmailRecordingReady struct {
	RecipientEmail  string
	RecipientName   string
	ClassTitle      string
	CourseTitle     string
	DurationSeconds *int64
}

// EmailAttachment represents a file attachment for an email
type EmailAttachment struct {
	Filename    string // Name of the attachment file
	ContentType string // MIME type of the attachment
	Content     string // Base64 encoded content
}
