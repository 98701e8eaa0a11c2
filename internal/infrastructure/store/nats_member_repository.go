// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strings"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// KeyPrefixMember prefixes member keys, which are encoded emails.
const KeyPrefixMember = "member"

// NatsMemberRepository is the NATS KV store repository for LMS members.
type NatsMemberRepository struct {
	*NatsBaseRepository[models.Member]
	keyBuilder *KeyBuilder
}

// NewNatsMemberRepository creates a new NATS KV store repository for members.
func NewNatsMemberRepository(kvStore INatsKeyValue) *NatsMemberRepository {
	return &NatsMemberRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Member](kvStore, "member"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsMemberRepository) key(email string) string {
	return r.keyBuilder.EntityKey(KeyPrefixMember, strings.ToLower(email))
}

// GetMember retrieves a member by email, case-insensitively.
func (r *NatsMemberRepository) GetMember(ctx context.Context, email string) (*models.Member, error) {
	if email == "" {
		return nil, domain.NewValidationError("member email is required")
	}
	return r.Get(ctx, r.key(email))
}

// PutMember upserts a member.
func (r *NatsMemberRepository) PutMember(ctx context.Context, member *models.Member) error {
	if member.Email == "" {
		return domain.NewValidationError("member email is required")
	}
	_, err := r.Create(ctx, r.key(member.Email), member)
	return err
}
