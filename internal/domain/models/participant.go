// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// LiveClassParticipant is one attendance row pulled from the provider after a class.
type LiveClassParticipant struct {
	UID          string     `json:"uid"`
	LiveClassUID string     `json:"live_class_uid"`
	Member       string     `json:"member"`
	Name         string     `json:"name,omitempty"`
	JoinedAt     *time.Time `json:"joined_at,omitempty"`
	LeftAt       *time.Time `json:"left_at,omitempty"`
	Duration     int        `json:"duration"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Notification types.
const (
	NotificationTypeAlert = "Alert"
)

// Notification is an in-app notification addressed to an LMS user.
type Notification struct {
	UID          string     `json:"uid"`
	ForUser      string     `json:"for_user"`
	Subject      string     `json:"subject"`
	Type         string     `json:"type"`
	DocumentType string     `json:"document_type,omitempty"`
	DocumentUID  string     `json:"document_uid,omitempty"`
	EmailContent string     `json:"email_content,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
