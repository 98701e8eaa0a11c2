// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Zoom webhook event names.
const (
	ZoomEventURLValidation      = "endpoint.url_validation"
	ZoomEventRecordingCompleted = "recording.completed"
)

// EventKind is the closed set of webhook events this service understands.
// Every event name outside the set maps to EventKindUnknown.
type EventKind int

const (
	EventKindUnknown EventKind = iota
	EventKindURLValidation
	EventKindRecordingCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventKindURLValidation:
		return ZoomEventURLValidation
	case EventKindRecordingCompleted:
		return ZoomEventRecordingCompleted
	default:
		return "unknown"
	}
}

// ParseEventKind maps a Zoom event name onto an EventKind.
func ParseEventKind(event string) EventKind {
	switch event {
	case ZoomEventURLValidation:
		return EventKindURLValidation
	case ZoomEventRecordingCompleted:
		return EventKindRecordingCompleted
	default:
		return EventKindUnknown
	}
}

// ZoomWebhookEnvelope is the JSON body of every Zoom webhook request.
type ZoomWebhookEnvelope struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts,omitempty"`
	Payload map[string]any `json:"payload"`
}

// Kind returns the event kind of the envelope.
func (e *ZoomWebhookEnvelope) Kind() EventKind {
	return ParseEventKind(e.Event)
}

// ZoomURLValidationPayload is the payload of endpoint.url_validation.
type ZoomURLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// ZoomChallengeResponse is the exact body Zoom expects back from the
// endpoint.url_validation handshake. It must stay a flat, two-field object.
type ZoomChallengeResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// ZoomRecordingCompletedPayload is the payload of recording.completed.
type ZoomRecordingCompletedPayload struct {
	AccountID string              `json:"account_id"`
	Object    ZoomRecordingObject `json:"object"`
}

// ZoomRecordingObject describes the meeting whose recording completed.
type ZoomRecordingObject struct {
	UUID           string          `json:"uuid"`
	ID             string          `json:"id"`
	HostID         string          `json:"host_id"`
	HostEmail      string          `json:"host_email"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	Timezone       string          `json:"timezone"`
	Duration       int             `json:"duration"`
	TotalSize      int64           `json:"total_size"`
	RecordingCount int             `json:"recording_count"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// decodePayload decodes a generic webhook payload map into a typed struct.
// Weak typing is on because Zoom sends numeric ids as numbers in some
// events and as strings in others.
func decodePayload(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ToURLValidationPayload decodes the payload of an endpoint.url_validation event.
func (e *ZoomWebhookEnvelope) ToURLValidationPayload() (*ZoomURLValidationPayload, error) {
	var payload ZoomURLValidationPayload
	if err := decodePayload(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode url validation payload: %w", err)
	}
	return &payload, nil
}

// ToRecordingCompletedPayload decodes the payload of a recording.completed event.
func (e *ZoomWebhookEnvelope) ToRecordingCompletedPayload() (*ZoomRecordingCompletedPayload, error) {
	var payload ZoomRecordingCompletedPayload
	if err := decodePayload(e.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode recording completed payload: %w", err)
	}
	return &payload, nil
}
