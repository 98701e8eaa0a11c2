// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validNATSKey matches the characters NATS accepts in KV keys.
var validNATSKey = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

// decodeKey joins the decoded segments of key with '/'.
func decodeKey(t *testing.T, key string) string {
	t.Helper()
	segments := strings.Split(key, ".")
	for i, segment := range segments {
		decoded, err := base64.RawURLEncoding.DecodeString(segment)
		require.NoError(t, err, "segment %q", segment)
		segments[i] = string(decoded)
	}
	return strings.Join(segments, "/")
}

func TestKeyBuilder_IndexKey(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []struct {
		name      string
		indexType string
		parts     []string
		decoded   string
	}{
		{
			name:      "meeting uuid with slashes and plus",
			indexType: KeyPrefixIndexMeetingUUID,
			parts:     []string{"/ajXp112QmuoKj4+854875=="},
			decoded:   "index/meeting-uuid//ajXp112QmuoKj4+854875==",
		},
		{
			name:      "enrollment by course and email",
			indexType: KeyPrefixIndexCourse,
			parts:     []string{"course-1", "student@example.com"},
			decoded:   "index/course/course-1/student@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := kb.IndexKey(tt.indexType, tt.parts...)

			assert.Regexp(t, validNATSKey, key)
			assert.NotContains(t, key, "..")
			assert.True(t, kb.IsIndexKey(key))

			assert.Equal(t, tt.decoded, decodeKey(t, key))
		})
	}
}

func TestKeyBuilder_SegmentsUseURLAlphabet(t *testing.T) {
	kb := NewKeyBuilder()

	// "??>" encodes to "Pz8-" in the URL alphabet and "Pz8+" in the standard one.
	key := kb.IndexKey(KeyPrefixIndexLesson, "??>")
	assert.NotContains(t, key, "+")
	assert.Regexp(t, validNATSKey, key)
	assert.Equal(t, "aW5kZXg.bGVzc29u.Pz8-", key)
}

func TestKeyBuilder_IndexPrefix(t *testing.T) {
	kb := NewKeyBuilder()

	prefix := kb.IndexPrefix(KeyPrefixIndexBatch, "batch-1")
	assert.Contains(t, kb.IndexKey(KeyPrefixIndexBatch, "batch-1", "a@example.com"), prefix)
	assert.NotContains(t, kb.IndexKey(KeyPrefixIndexBatch, "batch-10", "a@example.com"), prefix)
}

func TestKeyBuilder_EntityKeyIsNotIndex(t *testing.T) {
	kb := NewKeyBuilder()

	key := kb.EntityKey(KeyPrefixMember, "someone@example.com")
	assert.Regexp(t, validNATSKey, key)
	assert.False(t, kb.IsIndexKey(key))
	assert.False(t, kb.IsIndexKey("3f1c2a6e-2b7b-4c59-9d7e-0c6a3c1d9e11"))
	assert.Equal(t, KeyPrefixMember+"/someone@example.com", decodeKey(t, key))
}
