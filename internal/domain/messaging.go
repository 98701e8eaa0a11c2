// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// JobPublisher enqueues background work on the job queue.
type JobPublisher interface {
	PublishIngestRecording(ctx context.Context, job models.IngestRecordingJob) error
	PublishSweep(ctx context.Context, subject string, job models.SweepJob) error
}
