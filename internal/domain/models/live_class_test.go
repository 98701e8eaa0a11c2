// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordingMode(t *testing.T) {
	tests := []struct {
		input    string
		expected RecordingMode
	}{
		{"cloud", RecordingModeCloud},
		{"Cloud", RecordingModeCloud},
		{" CLOUD ", RecordingModeCloud},
		{"Local", RecordingModeLocal},
		{"No Recording", RecordingModeNone},
		{"", RecordingModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRecordingMode(tt.input))
		})
	}
}

func TestLiveClass_Schedule(t *testing.T) {
	lc := &LiveClass{
		Date:     "2024-03-10",
		Time:     "18:30",
		Timezone: "Asia/Kolkata",
		Duration: 90,
	}

	start, err := lc.StartTime()
	require.NoError(t, err)
	end, err := lc.EndTime()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 90*time.Minute, end.Sub(start))

	lc.Time = "25:99"
	_, err = lc.StartTime()
	assert.Error(t, err)
}

func TestLiveClass_Location_DefaultsToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, (&LiveClass{}).Location())
	assert.Equal(t, time.UTC, (&LiveClass{Timezone: "Not/AZone"}).Location())
}

func TestLiveClass_NeedsAttendance(t *testing.T) {
	count := 3
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	ended := func(lc LiveClass) *LiveClass {
		lc.Date, lc.Time, lc.Duration = "2026-10-19", "09:00", 60
		return &lc
	}

	tests := []struct {
		name      string
		liveClass *LiveClass
		expected  bool
	}{
		{name: "no meeting uuid", liveClass: ended(LiveClass{}), expected: false},
		{name: "ended without attendance", liveClass: ended(LiveClass{MeetingUUID: "abc=="}), expected: true},
		{name: "attendance already pulled", liveClass: ended(LiveClass{MeetingUUID: "abc==", Attendees: &count}), expected: false},
		{
			name:      "scheduled in the future",
			liveClass: &LiveClass{MeetingUUID: "abc==", Date: "2026-10-22", Time: "09:30", Duration: 90},
			expected:  false,
		},
		{
			name:      "still running",
			liveClass: &LiveClass{MeetingUUID: "abc==", Date: "2026-10-19", Time: "11:30", Duration: 60},
			expected:  false,
		},
		{
			name:      "ended in class time zone",
			liveClass: &LiveClass{MeetingUUID: "abc==", Date: "2026-10-19", Time: "15:00", Timezone: "Asia/Kolkata", Duration: 60},
			expected:  true,
		},
		{name: "unparseable schedule", liveClass: &LiveClass{MeetingUUID: "abc=="}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.liveClass.NeedsAttendance(now))
		})
	}
}

func TestLiveClass_Redacted(t *testing.T) {
	passcode := "s3cret"
	url := "https://zoom.us/rec/play/abc"
	lc := &LiveClass{UID: "lc-1", Recording: RecordingState{Processed: true, Passcode: &passcode, PlaybackURL: &url}}

	out := lc.Redacted()

	assert.Nil(t, out.Recording.Passcode)
	assert.Nil(t, out.Recording.PlaybackURL)
	assert.True(t, out.Recording.Processed)
	assert.NotNil(t, lc.Recording.Passcode, "original must be left untouched")
}

func TestSecret_NeverRenders(t *testing.T) {
	secret := Secret("super-secret-value")

	assert.Equal(t, "super-secret-value", secret.Reveal())
	assert.NotContains(t, fmt.Sprintf("%s %v", secret, secret), "super-secret-value")

	data, err := json.Marshal(ZoomAccount{Name: "main", WebhookSecret: secret, ClientSecret: secret})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret-value")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("account loaded", "webhook_secret", secret)
	assert.NotContains(t, buf.String(), "super-secret-value")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestMember_Roles(t *testing.T) {
	var nilMember *Member
	assert.False(t, nilMember.IsPrivileged())

	student := &Member{Email: "s@example.com"}
	assert.False(t, student.IsPrivileged())
	assert.Equal(t, "s@example.com", student.DisplayName())

	moderator := &Member{Email: "m@example.com", FullName: "Mod", Roles: []string{RoleModerator}}
	assert.True(t, moderator.IsPrivileged())
	assert.Equal(t, "Mod", moderator.DisplayName())
}
