// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJetStreamPublisher struct {
	mock.Mock
}

func (m *mockJetStreamPublisher) PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jetstream.PubAck), args.Error(1)
}

// fakeMsg implements jetstream.Msg for testing
type fakeMsg struct {
	subject string
	data    []byte
	headers nats.Header
	acked   bool
}

func (m *fakeMsg) Metadata() (*jetstream.MsgMetadata, error) {
	return &jetstream.MsgMetadata{NumDelivered: 1}, nil
}
func (m *fakeMsg) Data() []byte                     { return m.data }
func (m *fakeMsg) Headers() nats.Header             { return m.headers }
func (m *fakeMsg) Subject() string                  { return m.subject }
func (m *fakeMsg) Reply() string                    { return "" }
func (m *fakeMsg) Ack() error                       { m.acked = true; return nil }
func (m *fakeMsg) DoubleAck(context.Context) error  { m.acked = true; return nil }
func (m *fakeMsg) Nak() error                       { return nil }
func (m *fakeMsg) NakWithDelay(time.Duration) error { return nil }
func (m *fakeMsg) InProgress() error                { return nil }
func (m *fakeMsg) Term() error                      { return nil }
func (m *fakeMsg) TermWithReason(string) error      { return nil }

type recordingHandler struct {
	subjects []string
	payloads [][]byte
}

func (h *recordingHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	h.subjects = append(h.subjects, msg.Subject())
	h.payloads = append(h.payloads, msg.Data())
}

func (h *recordingHandler) HandlerReady() bool { return true }

func TestJobPublisher_PublishIngestRecording(t *testing.T) {
	ctx := context.Background()

	job := models.IngestRecordingJob{
		MeetingUUID: "/abc+def==",
		MeetingID:   "81234567891",
		EventTS:     1704103530000,
		RecordingFiles: []models.RecordingFile{
			{ID: "file-1", FileType: "MP4", RecordingType: "speaker_view", FileSize: 1024},
		},
	}

	tests := []struct {
		name       string
		publishErr error
		wantErr    bool
	}{
		{name: "published"},
		{name: "publish failure", publishErr: errors.New("no responders"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js := new(mockJetStreamPublisher)
			var sent *nats.Msg
			call := js.On("PublishMsg", mock.Anything, mock.AnythingOfType("*nats.Msg")).Run(func(args mock.Arguments) {
				sent = args.Get(1).(*nats.Msg)
			})
			if tt.publishErr != nil {
				call.Return(nil, tt.publishErr)
			} else {
				call.Return(&jetstream.PubAck{Stream: models.LiveClassJobsStream, Sequence: 1}, nil)
			}

			err := NewJobPublisher(js).PublishIngestRecording(ctx, job)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sent)

			assert.Equal(t, models.IngestRecordingSubject, sent.Subject)
			assert.Equal(t, models.MessageContentType, sent.Header.Get(headerContentType))
			assert.Equal(t, "ingest-recording:/abc+def==:1704103530000", sent.Header.Get(jetstream.MsgIDHeader))

			var decoded models.IngestRecordingJob
			require.NoError(t, Decode(sent.Data, &decoded))
			assert.Equal(t, job.MeetingUUID, decoded.MeetingUUID)
			assert.Equal(t, job.RecordingFiles, decoded.RecordingFiles)
			assert.False(t, decoded.EnqueuedAt.IsZero())
		})
	}
}

func TestJobPublisher_PublishSweep(t *testing.T) {
	js := new(mockJetStreamPublisher)
	js.On("PublishMsg", mock.Anything, mock.MatchedBy(func(msg *nats.Msg) bool {
		return msg.Subject == models.ReminderSweepSubject && msg.Header.Get(jetstream.MsgIDHeader) == ""
	})).Return(&jetstream.PubAck{}, nil)

	err := NewJobPublisher(js).PublishSweep(context.Background(), models.ReminderSweepSubject, models.SweepJob{RequestedBy: "operator"})

	require.NoError(t, err)
	js.AssertExpectations(t)
}

func TestJobPublisher_PublishSweep_ScheduledOccurrence(t *testing.T) {
	occurrence := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	wantID := fmt.Sprintf("%s:%d", models.AttendanceSweepSubject, occurrence.Unix())

	js := new(mockJetStreamPublisher)
	js.On("PublishMsg", mock.Anything, mock.MatchedBy(func(msg *nats.Msg) bool {
		return msg.Header.Get(jetstream.MsgIDHeader) == wantID
	})).Return(&jetstream.PubAck{Duplicate: true}, nil)

	err := NewJobPublisher(js).PublishSweep(context.Background(), models.AttendanceSweepSubject,
		models.SweepJob{RequestedBy: "scheduler", Occurrence: occurrence})

	require.NoError(t, err)
	js.AssertExpectations(t)
}

func TestJobConsumer_AcksAfterHandler(t *testing.T) {
	handler := &recordingHandler{}
	consumer := NewJobConsumer(nil, handler)

	data, err := Encode(models.SweepJob{RequestedBy: "test"})
	require.NoError(t, err)
	msg := &fakeMsg{subject: models.AttendanceSweepSubject, data: data, headers: nats.Header{}}

	consumer.process(context.Background(), msg)

	assert.Equal(t, []string{models.AttendanceSweepSubject}, handler.subjects)
	assert.True(t, msg.acked)

	var job models.SweepJob
	require.NoError(t, Decode(handler.payloads[0], &job))
	assert.Equal(t, "test", job.RequestedBy)
}
