// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// NatsLiveClassRepository is the NATS KV store repository for live classes.
// Classes are keyed by uid. The meeting UUID index lives in the same bucket
// under encoded "index/meeting-uuid/<uuid>" keys whose value is the class uid.
type NatsLiveClassRepository struct {
	*NatsBaseRepository[models.LiveClass]
	keyBuilder *KeyBuilder
}

// NewNatsLiveClassRepository creates a new NATS KV store repository for live classes.
func NewNatsLiveClassRepository(kvStore INatsKeyValue) *NatsLiveClassRepository {
	return &NatsLiveClassRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.LiveClass](kvStore, "live class"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// Create stores a new live class and indexes its meeting UUID.
func (r *NatsLiveClassRepository) Create(ctx context.Context, liveClass *models.LiveClass) error {
	if liveClass.UID == "" {
		liveClass.UID = uuid.New().String()
	}
	now := time.Now().UTC()
	liveClass.CreatedAt = &now
	liveClass.UpdatedAt = &now

	if _, err := r.NatsBaseRepository.Create(ctx, liveClass.UID, liveClass); err != nil {
		return err
	}

	r.indexMeetingUUID(ctx, liveClass)
	return nil
}

// Get retrieves a live class by uid.
func (r *NatsLiveClassRepository) Get(ctx context.Context, uid string) (*models.LiveClass, error) {
	return r.NatsBaseRepository.Get(ctx, uid)
}

// GetWithRevision retrieves a live class and its revision by uid.
func (r *NatsLiveClassRepository) GetWithRevision(ctx context.Context, uid string) (*models.LiveClass, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, uid)
}

// Update replaces a live class at revision and refreshes its meeting UUID index.
func (r *NatsLiveClassRepository) Update(ctx context.Context, liveClass *models.LiveClass, revision uint64) error {
	now := time.Now().UTC()
	liveClass.UpdatedAt = &now

	if _, err := r.NatsBaseRepository.Update(ctx, liveClass.UID, liveClass, revision); err != nil {
		return err
	}

	r.indexMeetingUUID(ctx, liveClass)
	return nil
}

// indexMeetingUUID is best effort: a missing index entry only delays
// ingestion until the class is saved again.
func (r *NatsLiveClassRepository) indexMeetingUUID(ctx context.Context, liveClass *models.LiveClass) {
	if liveClass.MeetingUUID == "" {
		return
	}
	indexKey := r.keyBuilder.IndexKey(KeyPrefixIndexMeetingUUID, liveClass.MeetingUUID)
	if err := r.PutIndex(ctx, indexKey, liveClass.UID); err != nil {
		slog.WarnContext(ctx, "failed to index live class meeting uuid",
			logging.ErrKey, err, "live_class_uid", liveClass.UID)
	}
}

// FindByMeetingUUID resolves the live class attached to a provider meeting UUID.
func (r *NatsLiveClassRepository) FindByMeetingUUID(ctx context.Context, meetingUUID string) (*models.LiveClass, uint64, error) {
	if meetingUUID == "" {
		return nil, 0, domain.NewValidationError("meeting uuid is required")
	}

	uid, err := r.GetIndex(ctx, r.keyBuilder.IndexKey(KeyPrefixIndexMeetingUUID, meetingUUID))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, 0, domain.NewNotFoundError("no live class for meeting uuid", err)
		}
		return nil, 0, err
	}

	liveClass, revision, err := r.GetWithRevision(ctx, uid)
	if err != nil {
		return nil, 0, err
	}

	// A stale index entry left behind by a meeting UUID change.
	if liveClass.MeetingUUID != meetingUUID {
		return nil, 0, domain.NewNotFoundError("no live class for meeting uuid")
	}

	return liveClass, revision, nil
}

// MarkProcessed records the recording state of a class. It fails with a
// Conflict error when the class is no longer at revision, including when
// another writer already marked it processed.
func (r *NatsLiveClassRepository) MarkProcessed(ctx context.Context, uid string, state models.RecordingState, revision uint64) error {
	liveClass, current, err := r.GetWithRevision(ctx, uid)
	if err != nil {
		return err
	}
	if current != revision {
		return domain.NewConflictError(fmt.Sprintf("live class %s moved from revision %d to %d", uid, revision, current))
	}
	if liveClass.Recording.Processed {
		return domain.NewConflictError(fmt.Sprintf("live class %s recording already processed", uid))
	}

	state.Processed = true
	if state.ProcessedAt == nil {
		now := time.Now().UTC()
		state.ProcessedAt = &now
	}
	liveClass.Recording = state
	liveClass.UpdatedAt = state.ProcessedAt

	_, err = r.NatsBaseRepository.Update(ctx, uid, liveClass, revision)
	return err
}

// ListAll returns every live class of the bucket.
func (r *NatsLiveClassRepository) ListAll(ctx context.Context) ([]*models.LiveClass, error) {
	return r.ListEntities(ctx, func(key string) bool {
		return !r.keyBuilder.IsIndexKey(key)
	})
}
