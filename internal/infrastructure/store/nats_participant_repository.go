// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// NatsParticipantRepository stores attendance rows, indexed by live class.
type NatsParticipantRepository struct {
	*NatsBaseRepository[models.LiveClassParticipant]
	keyBuilder *KeyBuilder
}

// NewNatsParticipantRepository creates a new NATS KV store repository for participants.
func NewNatsParticipantRepository(kvStore INatsKeyValue) *NatsParticipantRepository {
	return &NatsParticipantRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.LiveClassParticipant](kvStore, "live class participant"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// CreateParticipant stores one attendance row.
func (r *NatsParticipantRepository) CreateParticipant(ctx context.Context, participant *models.LiveClassParticipant) error {
	if participant.UID == "" {
		participant.UID = uuid.New().String()
	}
	now := time.Now().UTC()
	participant.CreatedAt = &now

	if _, err := r.Create(ctx, participant.UID, participant); err != nil {
		return err
	}

	indexKey := r.keyBuilder.IndexKey(KeyPrefixIndexLiveClass, participant.LiveClassUID, participant.UID)
	return r.PutIndex(ctx, indexKey, participant.UID)
}

// ListParticipants returns the attendance rows of a live class.
func (r *NatsParticipantRepository) ListParticipants(ctx context.Context, liveClassUID string) ([]*models.LiveClassParticipant, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := r.keyBuilder.IndexPrefix(KeyPrefixIndexLiveClass, liveClassUID)
	var participants []*models.LiveClassParticipant
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		uid, err := r.GetIndex(ctx, key)
		if err != nil {
			continue
		}
		participant, err := r.Get(ctx, uid)
		if err != nil {
			slog.WarnContext(ctx, "failed to get participant, skipping",
				"participant_uid", uid, logging.ErrKey, err)
			continue
		}
		participants = append(participants, participant)
	}
	return participants, nil
}

// NatsNotificationRepository is the notification log.
type NatsNotificationRepository struct {
	*NatsBaseRepository[models.Notification]
}

// NewNatsNotificationRepository creates a new NATS KV store repository for notifications.
func NewNatsNotificationRepository(kvStore INatsKeyValue) *NatsNotificationRepository {
	return &NatsNotificationRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Notification](kvStore, "notification"),
	}
}

// CreateNotification appends a notification to the log.
func (r *NatsNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.UID == "" {
		notification.UID = uuid.New().String()
	}
	if notification.CreatedAt == nil {
		now := time.Now().UTC()
		notification.CreatedAt = &now
	}
	_, err := r.Create(ctx, notification.UID, notification)
	return err
}
