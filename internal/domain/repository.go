// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// LiveClassRepository defines the interface for live class storage operations.
// Writes that carry a revision are compare-and-swap updates: they fail with a
// Conflict error when the stored revision has moved on.
type LiveClassRepository interface {
	Create(ctx context.Context, liveClass *models.LiveClass) error
	Get(ctx context.Context, uid string) (*models.LiveClass, error)
	GetWithRevision(ctx context.Context, uid string) (*models.LiveClass, uint64, error)
	Update(ctx context.Context, liveClass *models.LiveClass, revision uint64) error

	// FindByMeetingUUID looks a class up through the provider meeting UUID index.
	FindByMeetingUUID(ctx context.Context, meetingUUID string) (*models.LiveClass, uint64, error)

	// MarkProcessed stores the recording state of a class, but only if the
	// class is still at revision.
	MarkProcessed(ctx context.Context, uid string, state models.RecordingState, revision uint64) error

	ListAll(ctx context.Context) ([]*models.LiveClass, error)
}

// CatalogRepository gives read access to the courses, lessons and batches
// a live class may reference. Missing entries are reported as NotFound.
type CatalogRepository interface {
	GetCourse(ctx context.Context, uid string) (*models.Course, error)
	GetLesson(ctx context.Context, uid string) (*models.Lesson, error)
	GetBatch(ctx context.Context, uid string) (*models.Batch, error)

	// FindCourseForLesson resolves the course a lesson belongs to.
	FindCourseForLesson(ctx context.Context, lessonUID string) (*models.Course, error)
	// FindCourseForBatch resolves the first course attached to a batch.
	FindCourseForBatch(ctx context.Context, batchUID string) (*models.Course, error)
}

// EnrollmentRepository answers enrollment questions for the catalog.
type EnrollmentRepository interface {
	IsEnrolled(ctx context.Context, member, courseUID string) (bool, error)
	IsEnrolledInBatch(ctx context.Context, member, batchUID string) (bool, error)
	ListBatchEnrollments(ctx context.Context, batchUID string) ([]*models.Enrollment, error)
}

// MemberRepository looks up LMS users by email.
type MemberRepository interface {
	GetMember(ctx context.Context, email string) (*models.Member, error)
}

// ParticipantRepository stores attendance records.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant *models.LiveClassParticipant) error
	ListParticipants(ctx context.Context, liveClassUID string) ([]*models.LiveClassParticipant, error)
}

// ZoomAccountRepository stores Zoom account configuration. Implementations
// keep the confidential fields encrypted at rest.
type ZoomAccountRepository interface {
	GetAccount(ctx context.Context, name string) (*models.ZoomAccount, error)
	PutAccount(ctx context.Context, account *models.ZoomAccount) error
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}
