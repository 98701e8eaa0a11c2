// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

// ClientFactory builds a REST client for one set of account credentials.
type ClientFactory func(creds models.ZoomCredentials) api.ClientAPI

// NewClientFactory returns a factory producing api.Client values that share
// the given base settings.
func NewClientFactory(base api.Config) ClientFactory {
	return func(creds models.ZoomCredentials) api.ClientAPI {
		cfg := base
		cfg.AccountID = creds.AccountID
		cfg.ClientID = creds.ClientID
		cfg.ClientSecret = creds.ClientSecret
		return api.NewClient(cfg)
	}
}

// Provider implements domain.RecordingProvider on top of the Zoom REST API.
// Clients are created on first use per account and cached, so that each
// account keeps its own OAuth token.
type Provider struct {
	secrets        domain.SecretStore
	newClient      ClientFactory
	defaultAccount string

	mu      sync.Mutex
	clients map[string]api.ClientAPI
}

// Ensure Provider implements RecordingProvider
var _ domain.RecordingProvider = (*Provider)(nil)

// NewProvider creates a new Zoom recording provider. An empty account name
// passed to any method stands for defaultAccount.
func NewProvider(secrets domain.SecretStore, newClient ClientFactory, defaultAccount string) *Provider {
	return &Provider{
		secrets:        secrets,
		newClient:      newClient,
		defaultAccount: defaultAccount,
		clients:        make(map[string]api.ClientAPI),
	}
}

func (p *Provider) accountName(account string) string {
	if account == "" {
		return p.defaultAccount
	}
	return account
}

func (p *Provider) cached(account string) (api.ClientAPI, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.clients[account]
	return c, ok
}

// client returns the cached client of account. The credential lookup runs
// outside the lock; when two callers race, the first stored client wins.
func (p *Provider) client(ctx context.Context, account string) (api.ClientAPI, error) {
	account = p.accountName(account)
	if c, ok := p.cached(account); ok {
		return c, nil
	}

	creds, err := p.secrets.Credentials(ctx, account)
	if err != nil {
		return nil, err
	}
	if creds.AccountID == "" || creds.ClientID == "" || creds.ClientSecret.IsEmpty() {
		return nil, domain.NewUnavailableError(fmt.Sprintf("zoom account %q has no API credentials", account))
	}
	c := p.newClient(creds)

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients[account]; ok {
		return existing, nil
	}
	p.clients[account] = c
	return c, nil
}

// Forget drops the cached client of an account, so that rotated credentials
// are picked up on the next call.
func (p *Provider) Forget(account string) {
	account = p.accountName(account)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.clients, account)
}

// GetRecordingPasscode returns the playback passcode of the latest recording
// of a meeting.
func (p *Provider) GetRecordingPasscode(ctx context.Context, account, meetingID string) (string, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "get_recording_passcode"))
	ctx = logging.AppendCtx(ctx, slog.String("zoom_meeting_id", meetingID))

	client, err := p.client(ctx, account)
	if err != nil {
		return "", err
	}

	recordings, err := client.GetMeetingRecordings(ctx, meetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get Zoom meeting recordings", logging.ErrKey, err)
		return "", err
	}

	return recordings.Passcode(), nil
}

// GetPlaybackURL returns the current play URL of one recording file of a
// meeting instance.
func (p *Provider) GetPlaybackURL(ctx context.Context, account, meetingUUID, recordingID string) (string, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "get_playback_url"))

	client, err := p.client(ctx, account)
	if err != nil {
		return "", err
	}

	recordings, err := client.GetMeetingRecordings(ctx, meetingUUID)
	if err != nil {
		slog.WarnContext(ctx, "failed to refresh Zoom recording", logging.ErrKey, err)
		return "", err
	}

	file, ok := recordings.FindFile(recordingID)
	if !ok || file.PlayURL == "" {
		return "", domain.NewNotFoundError(fmt.Sprintf("recording file %s not found", recordingID))
	}
	return file.PlayURL, nil
}

// ListParticipants returns the attendance report of a past meeting instance.
func (p *Provider) ListParticipants(ctx context.Context, account, meetingUUID string) ([]domain.PastParticipant, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "list_past_participants"))

	client, err := p.client(ctx, account)
	if err != nil {
		return nil, err
	}

	rows, err := client.ListPastMeetingParticipants(ctx, meetingUUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list Zoom past meeting participants", logging.ErrKey, err)
		return nil, err
	}

	participants := make([]domain.PastParticipant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, domain.PastParticipant{
			Name:      row.Name,
			Email:     row.UserEmail,
			JoinTime:  parseTime(row.JoinTime),
			LeaveTime: parseTime(row.LeaveTime),
			Duration:  row.Duration,
		})
	}
	return participants, nil
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
