// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

const (
	// LiveClassJobsStream is the JetStream stream backing the live class work queue.
	LiveClassJobsStream = "LIVE_CLASS_JOBS"

	// LiveClassJobsSubjects is the subject filter captured by the work queue stream.
	LiveClassJobsSubjects = "lfx.live-class.jobs.>"

	// LiveClassJobsConsumer is the durable consumer shared by all service replicas.
	LiveClassJobsConsumer = "live-class-service"

	// IngestRecordingSubject carries recording.completed events waiting for ingestion.
	IngestRecordingSubject = "lfx.live-class.jobs.ingest-recording"

	// AttendanceSweepSubject triggers an attendance backfill run.
	AttendanceSweepSubject = "lfx.live-class.jobs.attendance-sweep"

	// ReminderSweepSubject triggers a reminder run.
	ReminderSweepSubject = "lfx.live-class.jobs.reminder-sweep"
)

// MessageContentType is the content type header set on msgpack encoded job messages.
const MessageContentType = "application/msgpack"

// IngestRecordingJob is the work item enqueued by the webhook dispatcher for
// a recording.completed event.
type IngestRecordingJob struct {
	MeetingUUID    string          `json:"meeting_uuid" msgpack:"meeting_uuid"`
	MeetingID      string          `json:"meeting_id,omitempty" msgpack:"meeting_id,omitempty"`
	Account        string          `json:"account,omitempty" msgpack:"account,omitempty"`
	RecordingFiles []RecordingFile `json:"recording_files" msgpack:"recording_files"`
	EventTS        int64           `json:"event_ts,omitempty" msgpack:"event_ts,omitempty"`
	EnqueuedAt     time.Time       `json:"enqueued_at" msgpack:"enqueued_at"`
}

// SweepJob asks a worker to run one of the periodic sweeps.
type SweepJob struct {
	RequestedBy string    `json:"requested_by,omitempty" msgpack:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at" msgpack:"requested_at"`
	// Occurrence is set by the scheduler. Replicas publishing the same
	// occurrence produce a single job.
	Occurrence time.Time `json:"occurrence,omitempty" msgpack:"occurrence,omitempty"`
}
