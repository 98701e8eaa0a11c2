// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the live class service API. It receives Zoom webhooks,
// serves live class and recording playback requests, and consumes the live
// class work queue.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-live-class-service/cmd/live-class-api/platforms"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/email"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/scheduler"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/webhook"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-live-class-service/pkg/utils"
)

func main() {
	loadDotEnv()
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	otelShutdown, err := utils.SetupOTelSDK(context.Background())
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		os.Exit(1)
	}

	// Set up JWT validator needed by the /live-classes routes.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	cipher, err := setupCipher(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up secrets cipher")
		os.Exit(1)
	}

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating JetStream context")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, js, cipher)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	zoomConfig := platforms.NewZoomConfigFromEnv()
	serviceConfig := service.ServiceConfig{
		DefaultAccount: zoomConfig.AccountName,
		Location:       env.Location,
		SweepWorkers:   env.SweepWorkers,
	}

	accountService := service.NewAccountService(repos.ZoomAccount, serviceConfig)
	recordingProvider, err := platforms.SetupZoom(ctx, accountService, zoomConfig)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up Zoom")
		return
	}

	// Initialize services
	publisher := messaging.NewJobPublisher(js)
	webhookDispatcher := service.NewWebhookDispatcher(
		accountService,
		webhook.NewSignatureVerifier(env.WebhookReplayWindow),
		publisher,
	)
	recordingIngestor := service.NewRecordingIngestor(
		repos.LiveClass,
		repos.Catalog,
		repos.Member,
		repos.Notification,
		recordingProvider,
		emailService,
	)
	playbackAuthorizer := service.NewPlaybackAuthorizer(
		repos.LiveClass,
		repos.Catalog,
		repos.Enrollment,
		repos.Member,
		recordingProvider,
	)
	attendanceService := service.NewAttendanceService(
		repos.LiveClass,
		repos.Participant,
		recordingProvider,
		serviceConfig,
	)
	reminderService := service.NewReminderService(
		repos.LiveClass,
		repos.Catalog,
		repos.Enrollment,
		emailService,
		serviceConfig,
	)
	liveClassService := service.NewLiveClassService(
		repos.LiveClass,
		repos.Catalog,
		repos.Enrollment,
		repos.Member,
		emailService,
		email.NewICSGenerator(),
		serviceConfig,
	)

	// Work queue consumer
	jobHandler := handlers.NewJobHandler(recordingIngestor, attendanceService, reminderService)
	consumer, err := messaging.EnsureJobQueue(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up the job queue")
		return
	}
	jobConsumer := messaging.NewJobConsumer(consumer, jobHandler)
	if err := jobConsumer.Start(ctx); err != nil {
		slog.With(logging.ErrKey, err).Error("error starting the job consumer")
		return
	}

	sched, err := setupScheduler(env, publisher)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up the scheduler")
		return
	}
	sched.Start(ctx)

	api := NewLiveClassAPI(webhookDispatcher, liveClassService, playbackAuthorizer)
	httpServer := setupHTTPServer(flags, newRouter(api, jwtAuth), &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, jobConsumer, sched, &gracefulCloseWG, cancel)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := otelShutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
	}
}

// gracefulShutdown stops accepting requests, lets in-flight jobs finish and
// drains the NATS connection.
func gracefulShutdown(
	httpServer *http.Server,
	natsConn *nats.Conn,
	jobConsumer *messaging.JobConsumer,
	sched *scheduler.Scheduler,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.With("addr", httpServer.Addr).Info("beginning graceful shutdown")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	// In-flight jobs finish before their context is cancelled.
	jobConsumer.Stop(ctx)

	// Cancelling marks the NATS close below as expected.
	cancel()

	go func() {
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		// Decrement the wait group.
		gracefulCloseWG.Done()
	}()

	sched.Wait()

	go func() {
		if !natsConn.IsClosed() && !natsConn.IsDraining() {
			slog.Info("draining NATS connections")
			if err := natsConn.Drain(); err != nil {
				slog.With(logging.ErrKey, err).Error("error draining NATS connection")
				// Skip waiting or checking error channel.
				return
			}
		}
	}()

	// Wait for the HTTP graceful shutdown and for the NATS connection to be
	// closed (see nats.ClosedHandler callback).
	gracefulCloseWG.Wait()
	slog.Info("graceful shutdown complete")
}
