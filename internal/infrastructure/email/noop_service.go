// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
)

// NoOpService is used when email delivery is disabled. It only logs.
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// Ensure NoOpService implements EmailService
var _ domain.EmailService = (*NoOpService)(nil)

// SendLiveClassReminder logs the reminder instead of sending it
func (s *NoOpService) SendLiveClassReminder(ctx context.Context, reminder domain.EmailReminder) error {
	slog.DebugContext(ctx, "email disabled, skipping reminder",
		"recipient_email", reminder.RecipientEmail,
		"class_title", reminder.ClassTitle)
	return nil
}

// SendLiveClassInvitation logs the invitation instead of sending it
func (s *NoOpService) SendLiveClassInvitation(ctx context.Context, invitation domain.EmailInvitation) error {
	slog.DebugContext(ctx, "email disabled, skipping invitation",
		"recipient_email", invitation.RecipientEmail,
		"event_title", invitation.EventTitle)
	return nil
}

// SendRecordingReady logs the notice instead of sending it
func (s *NoOpService) SendRecordingReady(ctx context.Context, notice domain.EmailRecordingReady) error {
	slog.DebugContext(ctx, "email disabled, skipping recording ready notice",
		"recipient_email", notice.RecipientEmail,
		"class_title", notice.ClassTitle)
	return nil
}
