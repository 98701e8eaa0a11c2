// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

// Playback URL freshness hints.
const (
	// PlaybackURLFresh means the URL was just fetched from Zoom.
	PlaybackURLFresh = "fresh"
	// PlaybackURLStored means the URL is the one captured at ingestion and
	// may have expired.
	PlaybackURLStored = "stored"
)

// PlaybackGrant is what an authorized member needs to watch a recording.
type PlaybackGrant struct {
	PlaybackURL string `json:"playback_url"`
	Passcode    string `json:"passcode,omitempty"`
	ExpiresHint string `json:"expires_hint"`
}

// classScope is the course and batch a live class belongs to. Either may
// be nil when the class does not reference it or the reference dangles.
type classScope struct {
	Course *models.Course
	Batch  *models.Batch
}

func (s classScope) empty() bool {
	return s.Course == nil && s.Batch == nil
}

// resolveScope resolves the course of a live class through its lesson, and
// failing that through the first course of its batch.
func resolveScope(ctx context.Context, catalog domain.CatalogRepository, liveClass *models.LiveClass) (classScope, error) {
	var scope classScope

	if liveClass.LessonUID != "" {
		course, err := catalog.FindCourseForLesson(ctx, liveClass.LessonUID)
		switch {
		case err == nil:
			scope.Course = course
		case !domain.IsNotFound(err):
			return scope, err
		}
	}

	if liveClass.BatchUID != "" {
		batch, err := catalog.GetBatch(ctx, liveClass.BatchUID)
		switch {
		case err == nil:
			scope.Batch = batch
		case !domain.IsNotFound(err):
			return scope, err
		}

		if scope.Course == nil && scope.Batch != nil {
			course, err := catalog.FindCourseForBatch(ctx, liveClass.BatchUID)
			switch {
			case err == nil:
				scope.Course = course
			case !domain.IsNotFound(err):
				return scope, err
			}
		}
	}

	return scope, nil
}

// PlaybackAuthorizer gates recording playback behind enrollment checks.
type PlaybackAuthorizer struct {
	LiveClassRepository  domain.LiveClassRepository
	CatalogRepository    domain.CatalogRepository
	EnrollmentRepository domain.EnrollmentRepository
	MemberRepository     domain.MemberRepository
	RecordingProvider    domain.RecordingProvider
}

// NewPlaybackAuthorizer creates a new PlaybackAuthorizer.
func NewPlaybackAuthorizer(
	liveClassRepository domain.LiveClassRepository,
	catalogRepository domain.CatalogRepository,
	enrollmentRepository domain.EnrollmentRepository,
	memberRepository domain.MemberRepository,
	recordingProvider domain.RecordingProvider,
) *PlaybackAuthorizer {
	return &PlaybackAuthorizer{
		LiveClassRepository:  liveClassRepository,
		CatalogRepository:    catalogRepository,
		EnrollmentRepository: enrollmentRepository,
		MemberRepository:     memberRepository,
		RecordingProvider:    recordingProvider,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *PlaybackAuthorizer) ServiceReady() bool {
	return s.LiveClassRepository != nil &&
		s.CatalogRepository != nil &&
		s.EnrollmentRepository != nil &&
		s.MemberRepository != nil &&
		s.RecordingProvider != nil
}

// Authorize returns the playback URL and passcode of a class recording if
// member may watch it.
func (s *PlaybackAuthorizer) Authorize(ctx context.Context, liveClassUID, member string) (*PlaybackGrant, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("playback authorizer is not ready")
	}
	if member == "" {
		return nil, domain.NewForbiddenError("no member on request")
	}
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", liveClassUID))

	liveClass, err := s.LiveClassRepository.Get(ctx, liveClassUID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, s.unknownClassError(ctx, member, err)
		}
		return nil, err
	}

	allowed, err := s.isAllowed(ctx, liveClass, member)
	if err != nil {
		return nil, err
	}
	if !allowed {
		slog.InfoContext(ctx, "recording playback denied", "member", member)
		return nil, domain.NewForbiddenError("you are not enrolled in this class")
	}

	if !liveClass.Recording.Processed {
		return nil, domain.NewNotFoundError("recording is not available yet")
	}

	grant := &PlaybackGrant{
		PlaybackURL: utils.Deref(liveClass.Recording.PlaybackURL),
		Passcode:    utils.Deref(liveClass.Recording.Passcode),
		ExpiresHint: PlaybackURLStored,
	}
	if refreshed := s.refreshPlaybackURL(ctx, liveClass); refreshed != "" {
		grant.PlaybackURL = refreshed
		grant.ExpiresHint = PlaybackURLFresh
	}
	if grant.PlaybackURL == "" {
		return nil, domain.NewNotFoundError("recording playback url is not available")
	}
	return grant, nil
}

// unknownClassError reports a missing class as NotFound only to privileged
// members. Everyone else gets the same Forbidden answer as for a class they
// may not watch.
func (s *PlaybackAuthorizer) unknownClassError(ctx context.Context, member string, notFound error) error {
	profile, err := s.MemberRepository.GetMember(ctx, member)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}
	if profile.IsPrivileged() {
		return notFound
	}
	slog.InfoContext(ctx, "recording playback denied", "member", member)
	return domain.NewForbiddenError("you are not enrolled in this class")
}

func (s *PlaybackAuthorizer) isAllowed(ctx context.Context, liveClass *models.LiveClass, member string) (bool, error) {
	scope, err := resolveScope(ctx, s.CatalogRepository, liveClass)
	if err != nil {
		return false, err
	}
	if scope.empty() {
		return false, nil
	}

	profile, err := s.MemberRepository.GetMember(ctx, member)
	if err != nil && !domain.IsNotFound(err) {
		return false, err
	}
	if profile.IsPrivileged() || scope.Course.HasInstructor(member) || scope.Batch.HasInstructor(member) {
		return true, nil
	}

	if scope.Course != nil {
		enrolled, err := s.EnrollmentRepository.IsEnrolled(ctx, member, scope.Course.UID)
		if err != nil {
			return false, err
		}
		if enrolled {
			return true, nil
		}
	}
	if scope.Batch != nil {
		return s.EnrollmentRepository.IsEnrolledInBatch(ctx, member, scope.Batch.UID)
	}
	return false, nil
}

// refreshPlaybackURL asks Zoom for a current play URL of the recorded file.
// It returns "" when the URL cannot be refreshed.
func (s *PlaybackAuthorizer) refreshPlaybackURL(ctx context.Context, liveClass *models.LiveClass) string {
	recordingID := utils.Deref(liveClass.Recording.RecordingID)
	if recordingID == "" || liveClass.MeetingUUID == "" {
		return ""
	}

	url, err := s.RecordingProvider.GetPlaybackURL(ctx, liveClass.ZoomAccount, liveClass.MeetingUUID, recordingID)
	if err != nil {
		slog.WarnContext(ctx, "failed to refresh playback url, using stored url", logging.ErrKey, err)
		return ""
	}
	return url
}
