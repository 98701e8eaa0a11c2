// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	// headerContentType is set on every job message.
	headerContentType = "Content-Type"

	// jobAckWait bounds how long a single job may run before JetStream
	// hands it to another replica.
	jobAckWait = 10 * time.Minute

	// jobMaxDeliver caps redeliveries of a job whose worker died mid-flight.
	jobMaxDeliver = 5

	// jobDuplicateWindow collapses provider retries of the same event.
	jobDuplicateWindow = 2 * time.Minute
)

// IJetStreamPublisher is the publishing half of jetstream.JetStream.
type IJetStreamPublisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Encode serializes a job for the queue.
func Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes a job read from the queue.
func Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// JobPublisher enqueues jobs on the live class work queue.
type JobPublisher struct {
	js IJetStreamPublisher
}

// NewJobPublisher creates a new JobPublisher.
func NewJobPublisher(js IJetStreamPublisher) *JobPublisher {
	return &JobPublisher{js: js}
}

func (p *JobPublisher) publish(ctx context.Context, subject, msgID string, job any) error {
	data, err := Encode(job)
	if err != nil {
		slog.ErrorContext(ctx, "error encoding job", logging.ErrKey, err, "subject", subject)
		return err
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(headerContentType, models.MessageContentType)
	if msgID != "" {
		msg.Header.Set(jetstream.MsgIDHeader, msgID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	ack, err := p.js.PublishMsg(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error publishing job to JetStream", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "published job",
		"subject", subject,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)
	return nil
}

// PublishIngestRecording enqueues a recording ingestion job. Jobs for the
// same meeting UUID and event timestamp are de-duplicated by the stream.
func (p *JobPublisher) PublishIngestRecording(ctx context.Context, job models.IngestRecordingJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	msgID := fmt.Sprintf("ingest-recording:%s:%d", job.MeetingUUID, job.EventTS)
	return p.publish(ctx, models.IngestRecordingSubject, msgID, job)
}

// PublishSweep enqueues a sweep run. Scheduled runs are de-duplicated per
// occurrence; operator runs never are.
func (p *JobPublisher) PublishSweep(ctx context.Context, subject string, job models.SweepJob) error {
	if job.RequestedAt.IsZero() {
		job.RequestedAt = time.Now().UTC()
	}
	var msgID string
	if !job.Occurrence.IsZero() {
		msgID = fmt.Sprintf("%s:%d", subject, job.Occurrence.Unix())
	}
	return p.publish(ctx, subject, msgID, job)
}

// EnsureJobQueue creates or updates the work queue stream and its durable
// consumer, and returns the consumer.
func EnsureJobQueue(ctx context.Context, js jetstream.JetStream) (jetstream.Consumer, error) {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       models.LiveClassJobsStream,
		Subjects:   []string{models.LiveClassJobsSubjects},
		Retention:  jetstream.WorkQueuePolicy,
		Storage:    jetstream.FileStorage,
		Duplicates: jobDuplicateWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stream %s: %w", models.LiveClassJobsStream, err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, models.LiveClassJobsStream, jetstream.ConsumerConfig{
		Durable:       models.LiveClassJobsConsumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       jobAckWait,
		MaxDeliver:    jobMaxDeliver,
		FilterSubject: models.LiveClassJobsSubjects,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s: %w", models.LiveClassJobsConsumer, err)
	}

	return consumer, nil
}

// jobMessage adapts a JetStream message to domain.Message.
type jobMessage struct {
	msg jetstream.Msg
}

func (m *jobMessage) Subject() string { return m.msg.Subject() }
func (m *jobMessage) Data() []byte    { return m.msg.Data() }

// IConsumer is the consuming half of jetstream.Consumer.
type IConsumer interface {
	Consume(handler jetstream.MessageHandler, opts ...jetstream.PullConsumeOpt) (jetstream.ConsumeContext, error)
}

// JobConsumer feeds work queue messages to a domain.MessageHandler.
// Each message is acked once the handler returns, whatever the outcome:
// failed jobs are logged by the handler and not retried.
type JobConsumer struct {
	consumer IConsumer
	handler  domain.MessageHandler
	consume  jetstream.ConsumeContext
}

// NewJobConsumer creates a new JobConsumer.
func NewJobConsumer(consumer IConsumer, handler domain.MessageHandler) *JobConsumer {
	return &JobConsumer{
		consumer: consumer,
		handler:  handler,
	}
}

// Start begins consuming. Handlers run with a context derived from ctx,
// carrying the trace context propagated in the message headers.
func (c *JobConsumer) Start(ctx context.Context) error {
	consume, err := c.consumer.Consume(func(msg jetstream.Msg) {
		c.process(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start job consumer: %w", err)
	}
	c.consume = consume
	return nil
}

func (c *JobConsumer) process(ctx context.Context, msg jetstream.Msg) {
	if headers := msg.Headers(); headers != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(headers))
	}
	if meta, err := msg.Metadata(); err == nil {
		ctx = logging.AppendCtx(ctx, slog.Uint64("delivery", meta.NumDelivered))
	}

	c.handler.HandleMessage(ctx, &jobMessage{msg: msg})

	if err := msg.Ack(); err != nil {
		slog.ErrorContext(ctx, "error acknowledging job", logging.ErrKey, err, "subject", msg.Subject())
	}
}

// Stop stops fetching new messages and waits, at most until ctx is done,
// for the buffered ones to be handled.
func (c *JobConsumer) Stop(ctx context.Context) {
	if c.consume == nil {
		return
	}
	c.consume.Drain()
	select {
	case <-c.consume.Closed():
	case <-ctx.Done():
		slog.WarnContext(ctx, "job consumer did not drain before the deadline")
	}
}
