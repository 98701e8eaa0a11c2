// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"slices"
	"time"
)

// RecordingFileTypeMP4 is the provider's video container type.
const RecordingFileTypeMP4 = "MP4"

// PlayableRecordingTypes are the camera and screen share layouts accepted as
// the class recording, in no particular order of preference.
var PlayableRecordingTypes = []string{
	"shared_screen_with_speaker_view",
	"shared_screen_with_gallery_view",
	"speaker_view",
	"gallery_view",
}

// RecordingFile is one file of a Zoom cloud recording.
type RecordingFile struct {
	ID             string `json:"id" msgpack:"id"`
	MeetingID      string `json:"meeting_id,omitempty" msgpack:"meeting_id,omitempty"`
	FileType       string `json:"file_type" msgpack:"file_type"`
	RecordingType  string `json:"recording_type" msgpack:"recording_type"`
	PlayURL        string `json:"play_url,omitempty" msgpack:"play_url,omitempty"`
	DownloadURL    string `json:"download_url,omitempty" msgpack:"download_url,omitempty"`
	FileSize       int64  `json:"file_size" msgpack:"file_size"`
	RecordingStart string `json:"recording_start,omitempty" msgpack:"recording_start,omitempty"`
	RecordingEnd   string `json:"recording_end,omitempty" msgpack:"recording_end,omitempty"`
	Status         string `json:"status,omitempty" msgpack:"status,omitempty"`
}

// IsPlayableVideo reports whether the file is an MP4 in one of the accepted layouts.
func (f RecordingFile) IsPlayableVideo() bool {
	return f.FileType == RecordingFileTypeMP4 && slices.Contains(PlayableRecordingTypes, f.RecordingType)
}

// DurationSeconds is the whole number of seconds between recording start
// and end. Both timestamps are RFC 3339 with a zone offset.
func (f RecordingFile) DurationSeconds() (int64, error) {
	start, err := time.Parse(time.RFC3339, f.RecordingStart)
	if err != nil {
		return 0, fmt.Errorf("invalid recording_start %q: %w", f.RecordingStart, err)
	}
	end, err := time.Parse(time.RFC3339, f.RecordingEnd)
	if err != nil {
		return 0, fmt.Errorf("invalid recording_end %q: %w", f.RecordingEnd, err)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("recording_end %q is before recording_start %q", f.RecordingEnd, f.RecordingStart)
	}
	return int64(end.Sub(start) / time.Second), nil
}

// SelectPlayableFile returns the first playable video among files.
func SelectPlayableFile(files []RecordingFile) (RecordingFile, bool) {
	for _, f := range files {
		if f.IsPlayableVideo() {
			return f, true
		}
	}
	return RecordingFile{}, false
}
