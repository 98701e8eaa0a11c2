// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

// SenderName is the display name used in the From header.
const SenderName = "LFX Live Classes"

const (
	mixedBoundary       = "===============LIVECLASSMIXED=="
	alternativeBoundary = "===============LIVECLASSALT=="
	base64LineLength    = 76
)

// buildEmailMessage builds the complete email message with headers and
// multipart content. Attachments wrap the alternative part in a
// multipart/mixed body.
func buildEmailMessage(recipient, subject, htmlContent, textContent string, config SMTPConfig, attachments ...*domain.EmailAttachment) string {
	var message strings.Builder

	message.WriteString(fmt.Sprintf("From: %s <%s>\r\n", SenderName, config.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)))
	message.WriteString("MIME-Version: 1.0\r\n")

	hasAttachments := false
	for _, a := range attachments {
		if a != nil {
			hasAttachments = true
		}
	}

	if hasAttachments {
		message.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mixedBoundary))
		message.WriteString("\r\n")
		message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	}

	writeAlternativePart(&message, htmlContent, textContent)

	if hasAttachments {
		for _, a := range attachments {
			if a == nil {
				continue
			}
			message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
			message.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", a.ContentType, a.Filename))
			message.WriteString("Content-Transfer-Encoding: base64\r\n")
			message.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", a.Filename))
			message.WriteString("\r\n")
			message.WriteString(wrapBase64(a.Content))
		}
		message.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))
	}

	return message.String()
}

func writeAlternativePart(message *strings.Builder, htmlContent, textContent string) {
	message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", alternativeBoundary))
	message.WriteString("\r\n")

	// Plain text part
	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(textContent)
	message.WriteString("\r\n")

	// HTML part
	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlContent)
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s--\r\n", alternativeBoundary))
}

// wrapBase64 splits already encoded content into 76 character lines.
func wrapBase64(content string) string {
	var out strings.Builder
	for len(content) > base64LineLength {
		out.WriteString(content[:base64LineLength])
		out.WriteString("\r\n")
		content = content[base64LineLength:]
	}
	out.WriteString(content)
	out.WriteString("\r\n")
	return out.String()
}

// sendEmailMessage sends a pre-built email message via SMTP
func sendEmailMessage(recipient, message string, config SMTPConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && !config.Password.IsEmpty() {
		auth = smtp.PlainAuth("", config.Username, config.Password.Reveal(), config.Host)
	}

	err := smtp.SendMail(addr, auth, config.From, []string{recipient}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
