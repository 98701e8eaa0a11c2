// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
)

const (
	// gracefulShutdownSeconds should be higher than NATS client
	// request timeout, and lower than the pod or liveness probe's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25

	// natsConnectTimeout bounds the connection retries at startup.
	natsConnectTimeout = 2 * time.Minute

	// kvHistory is the number of revisions kept per key.
	kvHistory = 5
)

// repositories are the NATS KV backed repositories of the service.
type repositories struct {
	LiveClass    *store.NatsLiveClassRepository
	ZoomAccount  *store.NatsZoomAccountRepository
	Catalog      *store.NatsCatalogRepository
	Enrollment   *store.NatsEnrollmentRepository
	Member       *store.NatsMemberRepository
	Participant  *store.NatsParticipantRepository
	Notification *store.NatsNotificationRepository
}

// setupNATS connects to NATS, retrying with exponential backoff until
// natsConnectTimeout elapses. A connection closed while the service is
// running triggers a shutdown through done.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	connect := func() (*nats.Conn, error) {
		return nats.Connect(
			env.NATSURL,
			nats.Name("lfx-v2-live-class-service"),
			nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
			nats.ConnectHandler(func(_ *nats.Conn) {
				slog.With("nats_url", env.NATSURL).Info("NATS connection established")
			}),
			nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
				if s != nil {
					slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
				} else {
					slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
				}
			}),
			nats.ClosedHandler(func(_ *nats.Conn) {
				if ctx.Err() != nil {
					// Expected graceful shutdown.
					gracefulCloseWG.Done()
					return
				}
				slog.Error("NATS connection closed unexpectedly")
				done <- os.Interrupt
			}),
		)
	}

	conn, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(natsConnectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.With(logging.ErrKey, err, "retry_in", next).Warn("error connecting to NATS, retrying")
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return conn, nil
}

// getKeyValueStores creates or binds the KV buckets and builds the
// repositories on top of them.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream, cipher store.SecretCipher) (*repositories, error) {
	buckets := []string{
		store.KVStoreNameLiveClasses,
		store.KVStoreNameZoomAccounts,
		store.KVStoreNameCourses,
		store.KVStoreNameLessons,
		store.KVStoreNameBatches,
		store.KVStoreNameEnrollments,
		store.KVStoreNameMembers,
		store.KVStoreNameParticipants,
		store.KVStoreNameNotifications,
	}

	kv := make(map[string]jetstream.KeyValue, len(buckets))
	for _, bucket := range buckets {
		bucketKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:  bucket,
			History: kvHistory,
			Storage: jetstream.FileStorage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to bind key-value store %s: %w", bucket, err)
		}
		kv[bucket] = bucketKV
	}

	return &repositories{
		LiveClass:   store.NewNatsLiveClassRepository(kv[store.KVStoreNameLiveClasses]),
		ZoomAccount: store.NewNatsZoomAccountRepository(kv[store.KVStoreNameZoomAccounts], cipher),
		Catalog: store.NewNatsCatalogRepository(
			kv[store.KVStoreNameCourses],
			kv[store.KVStoreNameLessons],
			kv[store.KVStoreNameBatches],
		),
		Enrollment:   store.NewNatsEnrollmentRepository(kv[store.KVStoreNameEnrollments]),
		Member:       store.NewNatsMemberRepository(kv[store.KVStoreNameMembers]),
		Participant:  store.NewNatsParticipantRepository(kv[store.KVStoreNameParticipants]),
		Notification: store.NewNatsNotificationRepository(kv[store.KVStoreNameNotifications]),
	}, nil
}
