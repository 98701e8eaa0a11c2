// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

func TestBuildEmailMessage(t *testing.T) {
	config := SMTPConfig{
		Host: "localhost",
		Port: 1025,
		From: "noreply@example.com",
	}

	tests := []struct {
		name        string
		subject     string
		attachments []*domain.EmailAttachment
		expectMixed bool
	}{
		{
			name:    "reminder without attachments",
			subject: "Your class on Intro to Go is today",
		},
		{
			name:        "invitation with calendar attachment",
			subject:     "Live Class on Intro to Go",
			attachments: []*domain.EmailAttachment{{Filename: "invite.ics", ContentType: ICSContentType, Content: strings.Repeat("QUJD", 40)}},
			expectMixed: true,
		},
		{
			name:        "nil attachment is ignored",
			subject:     "Recording uploaded for Intro to Go",
			attachments: []*domain.EmailAttachment{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := buildEmailMessage("user@example.com", tt.subject, "<h1>HTML</h1>", "Text", config, tt.attachments...)

			assert.Contains(t, message, "From: LFX Live Classes <noreply@example.com>")
			assert.Contains(t, message, "To: user@example.com")
			assert.Contains(t, message, fmt.Sprintf("Subject: %s", tt.subject))
			assert.Contains(t, message, "MIME-Version: 1.0")
			assert.Contains(t, message, "Content-Type: multipart/alternative")
			assert.Contains(t, message, "Content-Type: text/plain")
			assert.Contains(t, message, "Content-Type: text/html")
			assert.Contains(t, message, "<h1>HTML</h1>")

			if tt.expectMixed {
				assert.Contains(t, message, "Content-Type: multipart/mixed")
				assert.Contains(t, message, "Content-Transfer-Encoding: base64")
				for _, line := range strings.Split(message, "\r\n") {
					assert.LessOrEqual(t, len(line), 998)
				}
			} else {
				assert.NotContains(t, message, "multipart/mixed")
			}
		})
	}
}

func TestBuildEmailMessage_EncodesNonASCIISubject(t *testing.T) {
	message := buildEmailMessage("user@example.com", "Your class on Café is today", "", "", SMTPConfig{From: "noreply@example.com"})
	assert.Contains(t, message, "Subject: =?utf-8?q?")
}

func TestWrapBase64(t *testing.T) {
	wrapped := wrapBase64(strings.Repeat("A", 160))
	lines := strings.Split(strings.TrimSuffix(wrapped, "\r\n"), "\r\n")
	assert.Equal(t, []int{76, 76, 8}, []int{len(lines[0]), len(lines[1]), len(lines[2])})
}

func TestSendEmailMessage(t *testing.T) {
	t.Run("connection error", func(t *testing.T) {
		config := SMTPConfig{
			Host: "127.0.0.1",
			Port: 1,
			From: "noreply@example.com",
		}

		err := sendEmailMessage("user@example.com", "Test message", config)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send email")
	})
}
