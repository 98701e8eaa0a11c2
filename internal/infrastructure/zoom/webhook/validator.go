// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package webhook verifies Zoom webhook requests and answers the endpoint
// URL validation challenge.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-live-class-service/internal/domain/models"
)

// Zoom webhook request headers.
const (
	HeaderSignature = "x-zm-signature"
	HeaderTimestamp = "x-zm-request-timestamp"
)

const signatureVersion = "v0"

// DefaultReplayWindow is how far a request timestamp may drift from the
// local clock before the request is rejected.
const DefaultReplayWindow = 5 * time.Minute

// ErrInvalidSignature is returned for every verification failure, so callers
// cannot learn which part of a forged request was wrong.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// SignatureVerifier checks the HMAC signature Zoom attaches to webhook requests.
type SignatureVerifier struct {
	replayWindow time.Duration
	now          func() time.Time
}

// NewSignatureVerifier creates a verifier. A zero replayWindow disables the
// timestamp freshness check.
func NewSignatureVerifier(replayWindow time.Duration) *SignatureVerifier {
	return &SignatureVerifier{
		replayWindow: replayWindow,
		now:          time.Now,
	}
}

// Verify checks signature against v0:{timestamp}:{body} signed with secret.
func (v *SignatureVerifier) Verify(secret models.Secret, body []byte, signature, timestamp string) error {
	if secret.IsEmpty() || signature == "" || timestamp == "" {
		return ErrInvalidSignature
	}

	provided, ok := strings.CutPrefix(signature, signatureVersion+"=")
	if !ok {
		return ErrInvalidSignature
	}
	providedMAC, err := hex.DecodeString(provided)
	if err != nil {
		return ErrInvalidSignature
	}

	if v.replayWindow > 0 && !v.isFresh(timestamp) {
		return ErrInvalidSignature
	}

	if !hmac.Equal(providedMAC, sign(secret, signatureMessage(timestamp, body))) {
		return ErrInvalidSignature
	}
	return nil
}

func (v *SignatureVerifier) isFresh(timestamp string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	// Accept millisecond timestamps as well as seconds.
	if ts > 1e12 {
		ts /= 1000
	}
	drift := v.now().Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	return drift <= v.replayWindow
}

func signatureMessage(timestamp string, body []byte) []byte {
	message := make([]byte, 0, len(signatureVersion)+len(timestamp)+len(body)+2)
	message = append(message, signatureVersion...)
	message = append(message, ':')
	message = append(message, timestamp...)
	message = append(message, ':')
	return append(message, body...)
}

func sign(secret models.Secret, message []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret.Reveal()))
	mac.Write(message)
	return mac.Sum(nil)
}

// Sign returns the x-zm-signature header value for body, as Zoom computes it.
func Sign(secret models.Secret, timestamp string, body []byte) string {
	return signatureVersion + "=" + hex.EncodeToString(sign(secret, signatureMessage(timestamp, body)))
}

// EncryptToken answers the endpoint.url_validation challenge: the lowercase
// hex HMAC-SHA256 of plainToken keyed with the webhook secret.
func EncryptToken(secret models.Secret, plainToken string) string {
	return hex.EncodeToString(sign(secret, []byte(plainToken)))
}

// ChallengeResponse builds the body returned to the URL validation request.
func ChallengeResponse(secret models.Secret, plainToken string) models.ZoomChallengeResponse {
	return models.ZoomChallengeResponse{
		PlainToken:     plainToken,
		EncryptedToken: EncryptToken(secret, plainToken),
	}
}
