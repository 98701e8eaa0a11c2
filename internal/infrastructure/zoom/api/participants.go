// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
)

// participantsPageSize is the largest page the endpoint accepts.
const participantsPageSize = 300

// PastMeetingParticipant is one row of a past meeting participant report.
type PastMeetingParticipant struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	UserEmail string `json:"user_email"`
	JoinTime  string `json:"join_time"`
	LeaveTime string `json:"leave_time"`
	Duration  int    `json:"duration"`
}

type pastMeetingParticipantsPage struct {
	PageCount     int                      `json:"page_count"`
	PageSize      int                      `json:"page_size"`
	TotalRecords  int                      `json:"total_records"`
	NextPageToken string                   `json:"next_page_token"`
	Participants  []PastMeetingParticipant `json:"participants"`
}

// ListPastMeetingParticipants returns all participants of a past meeting
// instance, following next_page_token until the last page.
func (c *Client) ListPastMeetingParticipants(ctx context.Context, meetingUUID string) ([]PastMeetingParticipant, error) {
	var participants []PastMeetingParticipant
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("page_size", fmt.Sprint(participantsPageSize))
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}
		path := fmt.Sprintf("/past_meetings/%s/participants?%s", encodeMeetingUUID(meetingUUID), query.Encode())

		var page pastMeetingParticipantsPage
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, err
		}
		participants = append(participants, page.Participants...)

		if page.NextPageToken == "" {
			return participants, nil
		}
		pageToken = page.NextPageToken
	}
}
