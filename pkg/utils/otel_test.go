// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

var otelEnvVars = []string{
	"OTEL_SERVICE_NAME",
	"OTEL_SERVICE_VERSION",
	"OTEL_EXPORTER_OTLP_PROTOCOL",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE",
	"OTEL_TRACES_EXPORTER",
	"OTEL_TRACES_SAMPLE_RATIO",
	"OTEL_METRICS_EXPORTER",
	"OTEL_LOGS_EXPORTER",
}

func setOTelEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range otelEnvVars {
		t.Setenv(key, env[key])
	}
}

func TestOTelConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want OTelConfig
	}{
		{
			name: "defaults",
			want: OTelConfig{
				ServiceName:       "lfx-v2-live-class-service",
				Protocol:          OTelProtocolGRPC,
				TracesExporter:    OTelExporterNone,
				TracesSampleRatio: 1.0,
				MetricsExporter:   OTelExporterNone,
				LogsExporter:      OTelExporterNone,
			},
		},
		{
			name: "collector over http",
			env: map[string]string{
				"OTEL_SERVICE_NAME":           "live-class-api",
				"OTEL_SERVICE_VERSION":        "1.4.0",
				"OTEL_EXPORTER_OTLP_PROTOCOL": OTelProtocolHTTP,
				"OTEL_EXPORTER_OTLP_ENDPOINT": "otel-collector:4318",
				"OTEL_EXPORTER_OTLP_INSECURE": "true",
				"OTEL_TRACES_EXPORTER":        OTelExporterOTLP,
				"OTEL_TRACES_SAMPLE_RATIO":    "0.25",
				"OTEL_METRICS_EXPORTER":       OTelExporterOTLP,
				"OTEL_LOGS_EXPORTER":          OTelExporterOTLP,
			},
			want: OTelConfig{
				ServiceName:       "live-class-api",
				ServiceVersion:    "1.4.0",
				Protocol:          OTelProtocolHTTP,
				Endpoint:          "otel-collector:4318",
				Insecure:          true,
				TracesExporter:    OTelExporterOTLP,
				TracesSampleRatio: 0.25,
				MetricsExporter:   OTelExporterOTLP,
				LogsExporter:      OTelExporterOTLP,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOTelEnv(t, tt.env)
			assert.Equal(t, tt.want, OTelConfigFromEnv())
		})
	}
}

func TestOTelConfigFromEnv_SampleRatio(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0", 0},
		{"0.5", 0.5},
		{"1", 1},
		{"-0.1", 1},
		{"1.5", 1},
		{"sometimes", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			setOTelEnv(t, map[string]string{"OTEL_TRACES_SAMPLE_RATIO": tt.raw})
			assert.Equal(t, tt.want, OTelConfigFromEnv().TracesSampleRatio)
		})
	}
}

func TestOTelConfigFromEnv_Insecure(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "TRUE": false, "1": false, "false": false} {
		t.Run(raw, func(t *testing.T) {
			setOTelEnv(t, map[string]string{"OTEL_EXPORTER_OTLP_INSECURE": raw})
			assert.Equal(t, want, OTelConfigFromEnv().Insecure)
		})
	}
}

func TestSetupOTelSDKWithConfig_ExportersDisabled(t *testing.T) {
	shutdown, err := SetupOTelSDKWithConfig(context.Background(), OTelConfig{
		ServiceName:       "live-class-test",
		Protocol:          OTelProtocolGRPC,
		TracesExporter:    OTelExporterNone,
		TracesSampleRatio: 1.0,
		MetricsExporter:   OTelExporterNone,
		LogsExporter:      OTelExporterNone,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(context.Background()))
	assert.NoError(t, shutdown(context.Background()), "shutdown can be called twice")
}

func TestSetupOTelSDK_FromEnv(t *testing.T) {
	setOTelEnv(t, nil)

	shutdown, err := SetupOTelSDK(context.Background())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name        string
		cfg         OTelConfig
		wantVersion bool
	}{
		{name: "name only", cfg: OTelConfig{ServiceName: "live-class-api"}},
		{name: "name and version", cfg: OTelConfig{ServiceName: "live-class-api", ServiceVersion: "1.4.0"}, wantVersion: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newResource(tt.cfg)
			require.NoError(t, err)

			set := res.Set()
			name, ok := set.Value(attribute.Key("service.name"))
			require.True(t, ok)
			assert.Equal(t, tt.cfg.ServiceName, name.AsString())

			version, ok := set.Value(attribute.Key("service.version"))
			assert.Equal(t, tt.wantVersion, ok)
			if tt.wantVersion {
				assert.Equal(t, tt.cfg.ServiceVersion, version.AsString())
			}
		})
	}
}

func TestNewPropagator(t *testing.T) {
	fields := newPropagator().Fields()

	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	assert.Contains(t, fields, "uber-trace-id")
}
