// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates LiveClassTemplateManager
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string        // Optional for authenticated SMTP
	Password models.Secret // Optional for authenticated SMTP
}

// Ensure SMTPService implements EmailService
var _ domain.EmailService = (*SMTPService)(nil)

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}
	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// ReminderSubject is the subject of the same-day class reminder.
func ReminderSubject(classTitle string) string {
	return fmt.Sprintf("Your class on %s is today", classTitle)
}

// RecordingReadySubject is the subject of the recording uploaded notice.
func RecordingReadySubject(classTitle string) string {
	return fmt.Sprintf("Recording uploaded for %s", classTitle)
}

// SendLiveClassReminder sends the same-day reminder to an enrolled student
func (s *SMTPService) SendLiveClassReminder(ctx context.Context, reminder domain.EmailReminder) error {
	ctx = logging.AppendCtx(ctx, slog.String("email_template", TemplateLiveClassReminder))

	rendered, err := s.templates.RenderReminder(reminder)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render reminder email", logging.ErrKey, err)
		return err
	}

	return s.send(ctx, reminder.RecipientEmail, ReminderSubject(reminder.ClassTitle), rendered)
}

// SendLiveClassInvitation sends the calendar invitation of a live class
func (s *SMTPService) SendLiveClassInvitation(ctx context.Context, invitation domain.EmailInvitation) error {
	ctx = logging.AppendCtx(ctx, slog.String("email_template", TemplateLiveClassInvitation))

	rendered, err := s.templates.RenderInvitation(invitation)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render invitation email", logging.ErrKey, err)
		return err
	}

	return s.send(ctx, invitation.RecipientEmail, invitation.EventTitle, rendered, invitation.ICSAttachment)
}

// SendRecordingReady tells the class host that the recording is available
func (s *SMTPService) SendRecordingReady(ctx context.Context, notice domain.EmailRecordingReady) error {
	ctx = logging.AppendCtx(ctx, slog.String("email_template", TemplateRecordingReady))

	rendered, err := s.templates.RenderRecordingReady(notice)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render recording ready email", logging.ErrKey, err)
		return err
	}

	return s.send(ctx, notice.RecipientEmail, RecordingReadySubject(notice.ClassTitle), rendered)
}

func (s *SMTPService) send(ctx context.Context, recipient, subject string, rendered *RenderedEmail, attachments ...*domain.EmailAttachment) error {
	if recipient == "" {
		return domain.NewValidationError("email recipient is required")
	}

	message := buildEmailMessage(recipient, subject, rendered.HTML, rendered.Text, s.config, attachments...)
	if err := sendEmailMessage(recipient, message, s.config); err != nil {
		slog.ErrorContext(ctx, "failed to send email", "recipient_email", recipient, logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "email sent successfully", "recipient_email", recipient)
	return nil
}
