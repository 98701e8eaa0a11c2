// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"strings"
	"time"
)

// Date and time layouts used by the scheduling fields of a live class.
const (
	LiveClassDateLayout = "2006-01-02"
	LiveClassTimeLayout = "15:04"
)

// RecordingMode is the recording setting configured on the Zoom meeting of a live class.
type RecordingMode string

// Recording modes supported by Zoom meetings.
const (
	RecordingModeNone  RecordingMode = "none"
	RecordingModeLocal RecordingMode = "local"
	RecordingModeCloud RecordingMode = "cloud"
)

// ParseRecordingMode normalizes a recording mode value. Values are matched
// case-insensitively; anything unrecognised is treated as no recording.
func ParseRecordingMode(s string) RecordingMode {
	switch RecordingMode(strings.ToLower(strings.TrimSpace(s))) {
	case RecordingModeCloud:
		return RecordingModeCloud
	case RecordingModeLocal:
		return RecordingModeLocal
	default:
		return RecordingModeNone
	}
}

// RecordingState is the recording metadata captured for a live class once
// the provider reports the cloud recording as completed.
type RecordingState struct {
	Processed       bool       `json:"processed"`
	RecordingID     *string    `json:"recording_id,omitempty"`
	PlaybackURL     *string    `json:"playback_url,omitempty"`
	Passcode        *string    `json:"passcode,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64     `json:"file_size_bytes,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}

// LiveClass is a scheduled (or already held) class session backed by a Zoom meeting.
type LiveClass struct {
	UID           string         `json:"uid"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Timezone      string         `json:"timezone,omitempty"`
	Duration      int            `json:"duration"`
	MeetingID     string         `json:"meeting_id,omitempty"`
	MeetingUUID   string         `json:"meeting_uuid,omitempty"`
	JoinURL       string         `json:"join_url,omitempty"`
	ZoomAccount   string         `json:"zoom_account,omitempty"`
	BatchUID      string         `json:"batch_uid,omitempty"`
	LessonUID     string         `json:"lesson_uid,omitempty"`
	RecordingMode RecordingMode  `json:"recording_mode"`
	Host          string         `json:"host,omitempty"`
	EventUID      string         `json:"event_uid,omitempty"`
	Attendees     *int           `json:"attendees,omitempty"`
	Recording     RecordingState `json:"recording"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// Location returns the time zone the class is scheduled in, defaulting to UTC.
func (lc *LiveClass) Location() *time.Location {
	if lc.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(lc.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartTime combines the date and time fields in the class time zone.
func (lc *LiveClass) StartTime() (time.Time, error) {
	start, err := time.ParseInLocation(LiveClassDateLayout+" "+LiveClassTimeLayout,
		fmt.Sprintf("%s %s", lc.Date, lc.Time), lc.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule %q %q: %w", lc.Date, lc.Time, err)
	}
	return start, nil
}

// EndTime is the start time plus the scheduled duration in minutes.
func (lc *LiveClass) EndTime() (time.Time, error) {
	start, err := lc.StartTime()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(lc.Duration) * time.Minute), nil
}

// NeedsAttendance reports whether the class took place on Zoom, ended
// before now, and its attendance has not been pulled yet. A class whose
// schedule cannot be parsed never needs attendance.
func (lc *LiveClass) NeedsAttendance(now time.Time) bool {
	if lc.MeetingUUID == "" || lc.Attendees != nil {
		return false
	}
	end, err := lc.EndTime()
	if err != nil {
		return false
	}
	return end.Before(now)
}

// IsScheduledOn reports whether the class date matches day.
func (lc *LiveClass) IsScheduledOn(day time.Time) bool {
	return lc.Date == day.Format(LiveClassDateLayout)
}

// Redacted returns a copy of the class that is safe to hand to API callers:
// the recording passcode and the stored playback URL are only released
// through the playback endpoint.
func (lc *LiveClass) Redacted() *LiveClass {
	out := *lc
	out.Recording.Passcode = nil
	out.Recording.PlaybackURL = nil
	return &out
}
