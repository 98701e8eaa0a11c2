// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/email"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/utils"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/concurrent"
	pkgutils "github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

// CalendarEventDomain suffixes calendar event uids.
const CalendarEventDomain = "live-class.lfx.linuxfoundation.org"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateLiveClassRequest is the payload of a live class creation.
type CreateLiveClassRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description,omitempty" validate:"max=5000"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required,datetime=15:04"`
	Timezone      string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Duration      int    `json:"duration" validate:"required,min=1,max=1440"`
	MeetingID     string `json:"meeting_id,omitempty" validate:"omitempty,numeric"`
	MeetingUUID   string `json:"meeting_uuid,omitempty"`
	JoinURL       string `json:"join_url,omitempty" validate:"omitempty,url"`
	ZoomAccount   string `json:"zoom_account,omitempty"`
	BatchUID      string `json:"batch_uid,omitempty"`
	LessonUID     string `json:"lesson_uid,omitempty"`
	RecordingMode string `json:"recording_mode,omitempty" validate:"omitempty,oneof=none local cloud"`
}

// validationError flattens validator errors into one domain error.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return domain.NewValidationError("invalid request", err)
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return domain.NewValidationError("invalid live class: "+strings.Join(problems, ", "), err)
}

// LiveClassService schedules live classes and sends their calendar invitations.
type LiveClassService struct {
	LiveClassRepository  domain.LiveClassRepository
	CatalogRepository    domain.CatalogRepository
	EnrollmentRepository domain.EnrollmentRepository
	MemberRepository     domain.MemberRepository
	EmailService         domain.EmailService
	ICSGenerator         email.LiveClassICSGenerator
	Config               ServiceConfig
}

// NewLiveClassService creates a new LiveClassService.
func NewLiveClassService(
	liveClassRepository domain.LiveClassRepository,
	catalogRepository domain.CatalogRepository,
	enrollmentRepository domain.EnrollmentRepository,
	memberRepository domain.MemberRepository,
	emailService domain.EmailService,
	icsGenerator email.LiveClassICSGenerator,
	config ServiceConfig,
) *LiveClassService {
	return &LiveClassService{
		LiveClassRepository:  liveClassRepository,
		CatalogRepository:    catalogRepository,
		EnrollmentRepository: enrollmentRepository,
		MemberRepository:     memberRepository,
		EmailService:         emailService,
		ICSGenerator:         icsGenerator,
		Config:               config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *LiveClassService) ServiceReady() bool {
	return s.LiveClassRepository != nil &&
		s.CatalogRepository != nil &&
		s.EnrollmentRepository != nil &&
		s.MemberRepository != nil &&
		s.EmailService != nil &&
		s.ICSGenerator != nil
}

// CreateLiveClass stores a new class owned by creator and invites its
// participants. Invitation failures are logged; the class is created anyway.
func (s *LiveClassService) CreateLiveClass(ctx context.Context, req *CreateLiveClassRequest, creator string) (*models.LiveClass, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("live class service is not ready")
	}
	if req == nil {
		return nil, domain.NewValidationError("request body is required")
	}
	if err := validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	var batch *models.Batch
	if req.BatchUID != "" {
		var err error
		batch, err = s.CatalogRepository.GetBatch(ctx, req.BatchUID)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.NewValidationError(fmt.Sprintf("batch %s does not exist", req.BatchUID), err)
			}
			return nil, err
		}
	}

	account := pkgutils.CoalesceString(req.ZoomAccount, s.Config.DefaultAccount)
	meetingID := req.MeetingID
	if meetingID == "" {
		meetingID, _ = utils.ExtractZoomMeetingID(req.JoinURL)
	}
	liveClass := &models.LiveClass{
		UID:           uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Time:          req.Time,
		Timezone:      req.Timezone,
		Duration:      req.Duration,
		MeetingID:     meetingID,
		MeetingUUID:   req.MeetingUUID,
		JoinURL:       req.JoinURL,
		ZoomAccount:   account,
		BatchUID:      req.BatchUID,
		LessonUID:     req.LessonUID,
		RecordingMode: models.ParseRecordingMode(req.RecordingMode),
		Host:          creator,
	}
	if err := s.LiveClassRepository.Create(ctx, liveClass); err != nil {
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("live_class_uid", liveClass.UID))
	slog.InfoContext(ctx, "live class created")

	if eventUID, err := s.createCalendarEvent(ctx, liveClass, batch, creator); err != nil {
		slog.ErrorContext(ctx, "failed to create calendar event", logging.ErrKey, err)
	} else {
		liveClass.EventUID = eventUID
		s.storeEventUID(ctx, liveClass.UID, eventUID)
	}

	return liveClass.Redacted(), nil
}

// GetLiveClass returns a class without its recording secrets.
func (s *LiveClassService) GetLiveClass(ctx context.Context, uid string) (*models.LiveClass, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("live class service is not ready")
	}
	if uid == "" {
		return nil, domain.NewValidationError("live class uid is required")
	}
	liveClass, err := s.LiveClassRepository.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return liveClass.Redacted(), nil
}

// CalendarEventTitle is the title of the calendar event of a class.
func CalendarEventTitle(liveClass *models.LiveClass) string {
	return fmt.Sprintf("Live Class on %s", liveClass.Title)
}

// CalendarEventDescription is the description of the calendar event of a class.
func CalendarEventDescription(liveClass *models.LiveClass) string {
	description := fmt.Sprintf("A Live Class has been scheduled on %s at %s. Click on this link to join. %s.",
		liveClass.Date, liveClass.Time, liveClass.JoinURL)
	if liveClass.Description != "" {
		description += " " + liveClass.Description
	}
	return description
}

type invitee struct {
	Email string
	Name  string
}

// participants returns the batch students, the batch instructors and the
// creator, each once, in that order.
func (s *LiveClassService) participants(ctx context.Context, liveClass *models.LiveClass, batch *models.Batch, creator string) ([]invitee, error) {
	seen := make(map[string]bool)
	var out []invitee
	add := func(address, name string) {
		key := strings.ToLower(strings.TrimSpace(address))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		if name == "" {
			if member, err := s.MemberRepository.GetMember(ctx, address); err == nil {
				name = member.DisplayName()
			}
		}
		out = append(out, invitee{Email: address, Name: name})
	}

	if batch != nil {
		enrollments, err := s.EnrollmentRepository.ListBatchEnrollments(ctx, liveClass.BatchUID)
		if err != nil {
			return nil, err
		}
		for _, enrollment := range enrollments {
			add(enrollment.Member, enrollment.MemberName)
		}
		for _, instructor := range batch.Instructors {
			add(instructor, "")
		}
	}
	add(creator, "")
	return out, nil
}

// createCalendarEvent emails an ICS invitation to every participant and
// returns the event uid.
func (s *LiveClassService) createCalendarEvent(ctx context.Context, liveClass *models.LiveClass, batch *models.Batch, creator string) (string, error) {
	start, err := liveClass.StartTime()
	if err != nil {
		return "", err
	}
	invitees, err := s.participants(ctx, liveClass, batch, creator)
	if err != nil {
		return "", err
	}

	eventUID := fmt.Sprintf("%s@%s", liveClass.UID, CalendarEventDomain)
	title := CalendarEventTitle(liveClass)
	description := CalendarEventDescription(liveClass)
	timezone := liveClass.Location().String()

	pool := concurrent.NewWorkerPool(s.Config.sweepWorkers())
	errs := concurrent.ForEach(ctx, pool, invitees, func(ctx context.Context, to invitee) error {
		ics, err := s.ICSGenerator.GenerateLiveClassInvitationICS(email.ICSLiveClassInvitationParams{
			EventUID:        eventUID,
			Title:           title,
			Description:     description,
			StartTime:       start,
			DurationMinutes: liveClass.Duration,
			Timezone:        timezone,
			JoinLink:        liveClass.JoinURL,
			RecipientEmail:  to.Email,
			RecipientName:   to.Name,
		})
		if err != nil {
			return err
		}

		invitation := domain.EmailInvitation{
			RecipientEmail: to.Email,
			RecipientName:  to.Name,
			EventTitle:     title,
			StartTime:      start,
			Duration:       liveClass.Duration,
			Timezone:       timezone,
			Description:    description,
			JoinLink:       liveClass.JoinURL,
			ICSAttachment: &domain.EmailAttachment{
				Filename:    "invite.ics",
				ContentType: email.ICSContentType,
				Content:     base64.StdEncoding.EncodeToString([]byte(ics)),
			},
		}
		if err := s.EmailService.SendLiveClassInvitation(ctx, invitation); err != nil {
			slog.WarnContext(ctx, "failed to send live class invitation",
				"recipient", to.Email, logging.ErrKey, err)
			return err
		}
		return nil
	})

	if len(invitees) > 0 && len(errs) == len(invitees) {
		return "", errors.Join(errs...)
	}
	slog.InfoContext(ctx, "calendar invitations sent",
		"invited", len(invitees)-len(errs),
		"failed", len(errs),
	)
	return eventUID, nil
}

func (s *LiveClassService) storeEventUID(ctx context.Context, uid, eventUID string) {
	liveClass, revision, err := s.LiveClassRepository.GetWithRevision(ctx, uid)
	if err != nil {
		slog.ErrorContext(ctx, "failed to reload live class for event uid", logging.ErrKey, err)
		return
	}
	liveClass.EventUID = eventUID
	now := time.Now().UTC()
	liveClass.UpdatedAt = &now
	if err := s.LiveClassRepository.Update(ctx, liveClass, revision); err != nil {
		slog.ErrorContext(ctx, "failed to store calendar event uid", logging.ErrKey, err)
	}
}
