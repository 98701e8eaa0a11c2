// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestJobSubjectsAreCapturedByStream(t *testing.T) {
	prefix := strings.TrimSuffix(LiveClassJobsSubjects, ">")

	for _, subject := range []string{IngestRecordingSubject, AttendanceSweepSubject, ReminderSweepSubject} {
		t.Run(subject, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(subject, prefix))
			assert.NotContains(t, strings.TrimPrefix(subject, prefix), ".")
		})
	}
}

func TestIngestRecordingJob_Msgpack(t *testing.T) {
	job := IngestRecordingJob{
		MeetingUUID: "4444AAAiAAAAAiAiAiiAii==",
		MeetingID:   "85012345678",
		Account:     "training",
		RecordingFiles: []RecordingFile{
			{ID: "file-1", FileType: "MP4", RecordingType: "shared_screen_with_speaker_view"},
		},
		EventTS:    1700000000000,
		EnqueuedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	data, err := msgpack.Marshal(job)
	require.NoError(t, err)

	var decoded IngestRecordingJob
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	assert.Equal(t, job.MeetingUUID, decoded.MeetingUUID)
	assert.Equal(t, job.RecordingFiles, decoded.RecordingFiles)
	assert.True(t, job.EnqueuedAt.Equal(decoded.EnqueuedAt))
}

func TestSweepJob_Msgpack(t *testing.T) {
	occurrence := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		job  SweepJob
	}{
		{name: "manual run", job: SweepJob{RequestedBy: "admin", RequestedAt: occurrence.Add(time.Minute)}},
		{name: "scheduled run", job: SweepJob{RequestedBy: "scheduler", RequestedAt: occurrence, Occurrence: occurrence}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := msgpack.Marshal(tt.job)
			require.NoError(t, err)

			var decoded SweepJob
			require.NoError(t, msgpack.Unmarshal(data, &decoded))
			assert.Equal(t, tt.job.RequestedBy, decoded.RequestedBy)
			assert.True(t, tt.job.RequestedAt.Equal(decoded.RequestedAt))
			assert.Equal(t, tt.job.Occurrence.IsZero(), decoded.Occurrence.IsZero())
		})
	}
}
