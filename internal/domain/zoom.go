// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// RecordingProvider is the subset of the Zoom REST API the service relies on.
// Every call is made with the credentials of the named account.
type RecordingProvider interface {
	// GetRecordingPasscode returns the playback passcode of a meeting's cloud recording.
	GetRecordingPasscode(ctx context.Context, account, meetingID string) (string, error)

	// GetPlaybackURL returns a fresh play URL for one file of a meeting's
	// cloud recording.
	GetPlaybackURL(ctx context.Context, account, meetingUUID, recordingID string) (string, error)

	// ListParticipants returns every participant of a past meeting instance.
	ListParticipants(ctx context.Context, account, meetingUUID string) ([]PastParticipant, error)
}

// PastParticipant is one attendance row reported by the provider.
type PastParticipant struct {
	Name      string
	Email     string
	JoinTime  *time.Time
	LeaveTime *time.Time
	Duration  int
}

// ToModel converts the provider row into a participant record of a class.
func (p PastParticipant) ToModel(liveClassUID string) *models.LiveClassParticipant {
	return &models.LiveClassParticipant{
		LiveClassUID: liveClassUID,
		Member:       p.Email,
		Name:         p.Name,
		JoinedAt:     p.JoinTime,
		LeftAt:       p.LeaveTime,
		Duration:     p.Duration,
	}
}
