// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// MockCatalogRepository implements CatalogRepository for testing
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetCourse(ctx context.Context, uid string) (*models.Course, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCatalogRepository) GetLesson(ctx context.Context, uid string) (*models.Lesson, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockCatalogRepository) GetBatch(ctx context.Context, uid string) (*models.Batch, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockCatalogRepository) FindCourseForLesson(ctx context.Context, lessonUID string) (*models.Course, error) {
	args := m.Called(ctx, lessonUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCatalogRepository) FindCourseForBatch(ctx context.Context, batchUID string) (*models.Course, error) {
	args := m.Called(ctx, batchUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

// MockEnrollmentRepository implements EnrollmentRepository for testing
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) IsEnrolled(ctx context.Context, member, courseUID string) (bool, error) {
	args := m.Called(ctx, member, courseUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) IsEnrolledInBatch(ctx context.Context, member, batchUID string) (bool, error) {
	args := m.Called(ctx, member, batchUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) ListBatchEnrollments(ctx context.Context, batchUID string) ([]*models.Enrollment, error) {
	args := m.Called(ctx, batchUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Enrollment), args.Error(1)
}

// MockMemberRepository implements MemberRepository for testing
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetMember(ctx context.Context, email string) (*models.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
