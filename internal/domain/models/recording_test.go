// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingFile_DurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int64
		wantErr  bool
	}{
		{
			name:     "forty five and a half minutes",
			start:    "2024-01-01T10:00:00Z",
			end:      "2024-01-01T10:45:30Z",
			expected: 2730,
		},
		{
			name:     "zone offsets are honoured",
			start:    "2024-01-01T10:00:00+02:00",
			end:      "2024-01-01T08:30:00Z",
			expected: 1800,
		},
		{
			name:     "fractional seconds are truncated",
			start:    "2024-01-01T10:00:00Z",
			end:      "2024-01-01T10:00:59.900Z",
			expected: 59,
		},
		{
			name:    "missing start",
			end:     "2024-01-01T10:45:30Z",
			wantErr: true,
		},
		{
			name:    "end before start",
			start:   "2024-01-01T10:45:30Z",
			end:     "2024-01-01T10:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := RecordingFile{RecordingStart: tt.start, RecordingEnd: tt.end}
			got, err := f.DurationSeconds()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelectPlayableFile(t *testing.T) {
	tests := []struct {
		name       string
		files      []RecordingFile
		expectedID string
		found      bool
	}{
		{
			name: "first eligible file wins",
			files: []RecordingFile{
				{ID: "audio", FileType: "M4A", RecordingType: "audio_only"},
				{ID: "chat", FileType: "CHAT", RecordingType: "chat_file"},
				{ID: "speaker", FileType: "MP4", RecordingType: "speaker_view"},
				{ID: "gallery", FileType: "MP4", RecordingType: "gallery_view"},
			},
			expectedID: "speaker",
			found:      true,
		},
		{
			name: "mp4 with unknown layout is skipped",
			files: []RecordingFile{
				{ID: "active", FileType: "MP4", RecordingType: "active_speaker"},
				{ID: "screen", FileType: "MP4", RecordingType: "shared_screen_with_gallery_view"},
			},
			expectedID: "screen",
			found:      true,
		},
		{
			name: "allowed layout in another container is skipped",
			files: []RecordingFile{
				{ID: "m4a", FileType: "M4A", RecordingType: "speaker_view"},
			},
			found: false,
		},
		{
			name:  "no files",
			files: nil,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ok := SelectPlayableFile(tt.files)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expectedID, file.ID)
			}
		})
	}
}
