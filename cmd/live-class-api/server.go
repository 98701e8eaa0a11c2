// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/middleware"
)

// newRouter mounts the API routes.
func newRouter(api *LiveClassAPI, auth middleware.UserParser) http.Handler {
	r := chi.NewRouter()

	// Order matters: the request id must be set before the request is logged.
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware())

	r.Get("/livez", api.Livez)
	r.Get("/readyz", api.Readyz)

	r.Route(middleware.ZoomWebhookPath, func(r chi.Router) {
		r.Use(middleware.WebhookCORSMiddleware())
		r.Use(middleware.WebhookBodyCaptureMiddleware())

		r.Post("/", api.ZoomWebhook)
		r.Options("/", api.ZoomWebhookPreflight)
		r.Post("/{account}", api.ZoomWebhook)
		r.Options("/{account}", api.ZoomWebhookPreflight)
	})

	r.Route("/live-classes", func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(auth))

		r.Post("/", api.CreateLiveClass)
		r.Get("/{uid}", api.GetLiveClass)
		r.Get("/{uid}/recording", api.GetRecording)
	})

	return otelhttp.NewHandler(r, "live-class-api")
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
