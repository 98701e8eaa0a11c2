// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"log/slog"
)

const redactedSecret = "[REDACTED]"

// Secret holds a confidential value. It never renders its content through
// fmt, slog or JSON; callers that need the value use Reveal.
type Secret string

// Reveal returns the underlying value.
func (s Secret) Reveal() string {
	return string(s)
}

// IsEmpty reports whether the secret holds no value.
func (s Secret) IsEmpty() bool {
	return s == ""
}

func (s Secret) String() string {
	return redactedSecret
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redactedSecret)
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(redactedSecret)
}

// ZoomAccount holds the credentials of one configured Zoom account.
type ZoomAccount struct {
	Name          string `json:"name"`
	AccountID     string `json:"account_id"`
	ClientID      string `json:"client_id"`
	ClientSecret  Secret `json:"client_secret"`
	WebhookSecret Secret `json:"webhook_secret"`
	Member        string `json:"member,omitempty"`
}

// ZoomCredentials are the server-to-server OAuth credentials of an account.
type ZoomCredentials struct {
	AccountID    string
	ClientID     string
	ClientSecret Secret
}

// Credentials returns the OAuth credentials of the account.
func (a *ZoomAccount) Credentials() ZoomCredentials {
	return ZoomCredentials{
		AccountID:    a.AccountID,
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
	}
}

// HasAPICredentials reports whether the account can call the Zoom REST API.
func (a *ZoomAccount) HasAPICredentials() bool {
	return a.AccountID != "" && a.ClientID != "" && !a.ClientSecret.IsEmpty()
}
