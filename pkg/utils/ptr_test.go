// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPtrDeref(t *testing.T) {
	s := Ptr("value")
	assert.Equal(t, "value", *s)
	assert.Equal(t, "value", Deref(s))

	var nilString *string
	assert.Equal(t, "", Deref(nilString))

	var nilInt *int64
	assert.Equal(t, int64(0), Deref(nilInt))
	assert.Equal(t, int64(42), Deref(Ptr(int64(42))))

	var nilTime *time.Time
	assert.True(t, Deref(nilTime).IsZero())
}

func TestPtr_ReturnsCopy(t *testing.T) {
	v := 1
	p := Ptr(v)
	*p = 2
	assert.Equal(t, 1, v)
}
