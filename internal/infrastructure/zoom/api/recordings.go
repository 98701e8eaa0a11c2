// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
)

// RecordingFile is one file of a cloud recording as returned by the REST API.
type RecordingFile struct {
	ID             string `json:"id"`
	MeetingID      string `json:"meeting_id"`
	FileType       string `json:"file_type"`
	RecordingType  string `json:"recording_type"`
	PlayURL        string `json:"play_url"`
	DownloadURL    string `json:"download_url"`
	FileSize       int64  `json:"file_size"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
	Status         string `json:"status"`
}

// MeetingRecordings is the response of GET /meetings/{meetingId}/recordings.
type MeetingRecordings struct {
	UUID                  string          `json:"uuid"`
	ID                    int64           `json:"id"`
	Topic                 string          `json:"topic"`
	StartTime             string          `json:"start_time"`
	Duration              int             `json:"duration"`
	TotalSize             int64           `json:"total_size"`
	Password              string          `json:"password"`
	RecordingPlayPasscode string          `json:"recording_play_passcode"`
	RecordingFiles        []RecordingFile `json:"recording_files"`
}

// Passcode returns the recording passcode, preferring password over
// recording_play_passcode.
func (r *MeetingRecordings) Passcode() string {
	if r.Password != "" {
		return r.Password
	}
	return r.RecordingPlayPasscode
}

// FindFile returns the recording file with the given id.
func (r *MeetingRecordings) FindFile(id string) (RecordingFile, bool) {
	for _, f := range r.RecordingFiles {
		if f.ID == id {
			return f, true
		}
	}
	return RecordingFile{}, false
}

// GetMeetingRecordings retrieves the cloud recording of a meeting. The
// argument is either the numeric meeting id, which resolves to the latest
// instance, or a meeting instance UUID.
func (c *Client) GetMeetingRecordings(ctx context.Context, meetingIDOrUUID string) (*MeetingRecordings, error) {
	path := fmt.Sprintf("/meetings/%s/recordings", encodeMeetingUUID(meetingIDOrUUID))

	var recordings MeetingRecordings
	if err := c.getJSON(ctx, path, &recordings); err != nil {
		return nil, err
	}
	return &recordings, nil
}
