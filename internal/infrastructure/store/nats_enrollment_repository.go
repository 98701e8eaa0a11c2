// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// NatsEnrollmentRepository is the NATS KV store repository for enrollments.
// Enrollments are indexed by course and by batch, with the member email as
// the last index segment, so membership checks are a single key lookup.
type NatsEnrollmentRepository struct {
	*NatsBaseRepository[models.Enrollment]
	keyBuilder *KeyBuilder
}

// NewNatsEnrollmentRepository creates a new NATS KV store repository for enrollments.
func NewNatsEnrollmentRepository(kvStore INatsKeyValue) *NatsEnrollmentRepository {
	return &NatsEnrollmentRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Enrollment](kvStore, "enrollment"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// CreateEnrollment stores an enrollment and its course and batch indexes.
func (r *NatsEnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.UID == "" {
		enrollment.UID = uuid.New().String()
	}
	if enrollment.Member == "" {
		return domain.NewValidationError("enrollment member is required")
	}

	if _, err := r.Create(ctx, enrollment.UID, enrollment); err != nil {
		return err
	}

	if enrollment.CourseUID != "" {
		if err := r.PutIndex(ctx, r.courseIndexKey(enrollment.CourseUID, enrollment.Member), enrollment.UID); err != nil {
			return err
		}
	}
	if enrollment.BatchUID != "" {
		if err := r.PutIndex(ctx, r.batchIndexKey(enrollment.BatchUID, enrollment.Member), enrollment.UID); err != nil {
			return err
		}
	}
	return nil
}

func (r *NatsEnrollmentRepository) courseIndexKey(courseUID, member string) string {
	return r.keyBuilder.IndexKey(KeyPrefixIndexCourse, courseUID, strings.ToLower(member))
}

func (r *NatsEnrollmentRepository) batchIndexKey(batchUID, member string) string {
	return r.keyBuilder.IndexKey(KeyPrefixIndexBatch, batchUID, strings.ToLower(member))
}

func (r *NatsEnrollmentRepository) indexExists(ctx context.Context, indexKey string) (bool, error) {
	_, err := r.GetIndex(ctx, indexKey)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsEnrolled reports whether member is enrolled in the course.
func (r *NatsEnrollmentRepository) IsEnrolled(ctx context.Context, member, courseUID string) (bool, error) {
	if member == "" || courseUID == "" {
		return false, nil
	}
	return r.indexExists(ctx, r.courseIndexKey(courseUID, member))
}

// IsEnrolledInBatch reports whether member is enrolled in the batch.
func (r *NatsEnrollmentRepository) IsEnrolledInBatch(ctx context.Context, member, batchUID string) (bool, error) {
	if member == "" || batchUID == "" {
		return false, nil
	}
	return r.indexExists(ctx, r.batchIndexKey(batchUID, member))
}

// ListBatchEnrollments returns the enrollments of a batch.
func (r *NatsEnrollmentRepository) ListBatchEnrollments(ctx context.Context, batchUID string) ([]*models.Enrollment, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := r.keyBuilder.IndexPrefix(KeyPrefixIndexBatch, batchUID)
	var enrollments []*models.Enrollment
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		uid, err := r.GetIndex(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "failed to resolve batch enrollment index, skipping",
				"key", key, logging.ErrKey, err)
			continue
		}

		enrollment, err := r.Get(ctx, uid)
		if err != nil {
			slog.WarnContext(ctx, "failed to get enrollment, skipping",
				"enrollment_uid", uid, logging.ErrKey, err)
			continue
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, nil
}
