// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"strings"
)

// Key prefixes
const (
	KeyPrefixIndex            = "index"
	KeyPrefixIndexMeetingUUID = "meeting-uuid"
	KeyPrefixIndexLesson      = "lesson"
	KeyPrefixIndexBatch       = "batch"
	KeyPrefixIndexCourse      = "course"
	KeyPrefixIndexLiveClass   = "live-class"
)

// KeyBuilder builds NATS KV keys. Index keys embed user supplied values
// (emails, provider meeting UUIDs with '/', '+' and '=') so every path
// segment is base64url encoded and segments are joined with '.'.
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// EntityKey builds the encoded key of an entity whose id is not a uuid,
// such as a member email or an account name.
func (kb *KeyBuilder) EntityKey(entityType, id string) string {
	return kb.encodeSegment(entityType) + "." + kb.encodeSegment(id)
}

// IndexKey builds the encoded form of "index/<indexType>/<parts...>".
// Each part becomes exactly one key segment, even when it contains '/'.
func (kb *KeyBuilder) IndexKey(indexType string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, kb.encodeSegment(KeyPrefixIndex), kb.encodeSegment(indexType))
	for _, part := range parts {
		segments = append(segments, kb.encodeSegment(part))
	}
	return strings.Join(segments, ".")
}

// IndexPrefix is the encoded key prefix shared by every entry of an index
// value, suitable for filtering a key listing.
func (kb *KeyBuilder) IndexPrefix(indexType string, parts ...string) string {
	return kb.IndexKey(indexType, parts...) + "."
}

// IsIndexKey reports whether key was produced by IndexKey.
func (kb *KeyBuilder) IsIndexKey(key string) bool {
	return strings.HasPrefix(key, kb.encodeSegment(KeyPrefixIndex)+".")
}

func (kb *KeyBuilder) encodeSegment(part string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}
