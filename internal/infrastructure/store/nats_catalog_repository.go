// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// NatsCatalogRepository reads courses, lessons and batches from their KV buckets.
// The catalog is owned by the LMS; the Put methods exist to sync it in.
type NatsCatalogRepository struct {
	courses *NatsBaseRepository[models.Course]
	lessons *NatsBaseRepository[models.Lesson]
	batches *NatsBaseRepository[models.Batch]
}

// NewNatsCatalogRepository creates a new catalog repository.
func NewNatsCatalogRepository(courses, lessons, batches INatsKeyValue) *NatsCatalogRepository {
	return &NatsCatalogRepository{
		courses: NewNatsBaseRepository[models.Course](courses, "course"),
		lessons: NewNatsBaseRepository[models.Lesson](lessons, "lesson"),
		batches: NewNatsBaseRepository[models.Batch](batches, "batch"),
	}
}

// IsReady reports whether every catalog bucket is bound.
func (r *NatsCatalogRepository) IsReady() bool {
	return r.courses.IsReady() && r.lessons.IsReady() && r.batches.IsReady()
}

// GetCourse returns a course by uid.
func (r *NatsCatalogRepository) GetCourse(ctx context.Context, uid string) (*models.Course, error) {
	return r.courses.Get(ctx, uid)
}

// GetLesson returns a lesson by uid.
func (r *NatsCatalogRepository) GetLesson(ctx context.Context, uid string) (*models.Lesson, error) {
	return r.lessons.Get(ctx, uid)
}

// GetBatch returns a batch by uid.
func (r *NatsCatalogRepository) GetBatch(ctx context.Context, uid string) (*models.Batch, error) {
	return r.batches.Get(ctx, uid)
}

// PutCourse upserts a course.
func (r *NatsCatalogRepository) PutCourse(ctx context.Context, course *models.Course) error {
	_, err := r.courses.Create(ctx, course.UID, course)
	return err
}

// PutLesson upserts a lesson.
func (r *NatsCatalogRepository) PutLesson(ctx context.Context, lesson *models.Lesson) error {
	_, err := r.lessons.Create(ctx, lesson.UID, lesson)
	return err
}

// PutBatch upserts a batch.
func (r *NatsCatalogRepository) PutBatch(ctx context.Context, batch *models.Batch) error {
	_, err := r.batches.Create(ctx, batch.UID, batch)
	return err
}

// FindCourseForLesson resolves lesson -> course. A lesson pointing at a
// deleted course is reported as NotFound.
func (r *NatsCatalogRepository) FindCourseForLesson(ctx context.Context, lessonUID string) (*models.Course, error) {
	lesson, err := r.GetLesson(ctx, lessonUID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseUID == "" {
		return nil, domain.NewNotFoundError(fmt.Sprintf("lesson %s has no course", lessonUID))
	}
	return r.GetCourse(ctx, lesson.CourseUID)
}

// FindCourseForBatch resolves the first course attached to a batch.
func (r *NatsCatalogRepository) FindCourseForBatch(ctx context.Context, batchUID string) (*models.Course, error) {
	batch, err := r.GetBatch(ctx, batchUID)
	if err != nil {
		return nil, err
	}
	if len(batch.Courses) == 0 {
		return nil, domain.NewNotFoundError(fmt.Sprintf("batch %s has no courses", batchUID))
	}
	return r.GetCourse(ctx, batch.Courses[0])
}
