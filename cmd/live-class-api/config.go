// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/scheduler"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/infrastructure/zoom/webhook"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/service"
)

const (
	defaultPort     = "8080"
	defaultNATSURL  = "nats://localhost:4222"
	defaultSMTPPort = 1025
)

// flags are the command line flags for the live class service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the live class service.
type environment struct {
	Port                string
	NATSURL             string
	SecretsKey          models.Secret
	Email               emailConfig
	WebhookReplayWindow time.Duration
	SweepWorkers        int
	Location            *time.Location
	AttendanceSchedule  string
	ReminderSchedule    string
}

// emailConfig holds the SMTP settings. Email is sent only when Enabled.
type emailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	From     string
	Username string
	Password models.Secret
}

// loadDotEnv loads a .env file from the working directory, if any. Variables
// already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}
}

// parseFlags parses command line flags for the live class service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the live class service. Invalid
// values are logged and replaced by their defaults.
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = defaultNATSURL
	}

	location := time.UTC
	if tz := os.Getenv("SERVICE_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.With(logging.ErrKey, err, "timezone", tz).Warn("invalid SERVICE_TIMEZONE, using UTC")
		} else {
			location = loc
		}
	}

	attendanceSchedule := os.Getenv("ATTENDANCE_SCHEDULE")
	if attendanceSchedule == "" {
		attendanceSchedule = scheduler.HourlyRule
	}
	reminderSchedule := os.Getenv("REMINDER_SCHEDULE")
	if reminderSchedule == "" {
		reminderSchedule = scheduler.DailyRule
	}

	return environment{
		Port:                port,
		NATSURL:             natsURL,
		SecretsKey:          models.Secret(os.Getenv("SECRETS_ENCRYPTION_KEY")),
		Email:               parseEmailConfig(),
		WebhookReplayWindow: envDuration("WEBHOOK_REPLAY_WINDOW", webhook.DefaultReplayWindow),
		SweepWorkers:        envInt("SWEEP_WORKERS", service.DefaultSweepWorkers),
		Location:            location,
		AttendanceSchedule:  attendanceSchedule,
		ReminderSchedule:    reminderSchedule,
	}
}

// parseEmailConfig parses the SMTP settings from environment variables
func parseEmailConfig() emailConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "localhost"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@linuxfoundation.org"
	}

	return emailConfig{
		Enabled:  os.Getenv("EMAIL_ENABLED") == "true",
		Host:     host,
		Port:     envInt("SMTP_PORT", defaultSMTPPort),
		From:     from,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: models.Secret(os.Getenv("SMTP_PASSWORD")),
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("invalid integer environment variable, using default", "name", name, "value", raw)
		return fallback
	}
	return v
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		slog.Warn("invalid duration environment variable, using default", "name", name, "value", raw)
		return fallback
	}
	return v
}
