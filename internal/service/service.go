// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import "time"

type Service interface {
	ServiceReady() bool
}

// DefaultSweepWorkers bounds the fan-out of the periodic sweeps.
const DefaultSweepWorkers = 5

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// DefaultAccount is the Zoom account used when a request names none.
	DefaultAccount string
	// Location is the service time zone, used to decide what "today" means
	// for the reminder sweep.
	Location *time.Location
	// SweepWorkers is the number of classes processed concurrently by a sweep.
	SweepWorkers int
}

func (c ServiceConfig) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c ServiceConfig) sweepWorkers() int {
	if c.SweepWorkers <= 0 {
		return DefaultSweepWorkers
	}
	return c.SweepWorkers
}
