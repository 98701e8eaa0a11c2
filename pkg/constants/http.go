// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Constants for the HTTP request headers
const (
	// AuthorizationHeader is the header name for the authorization
	AuthorizationHeader string = "authorization"

	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// ZoomSignatureHeader carries the v0= HMAC signature of a Zoom webhook
	ZoomSignatureHeader string = "x-zm-signature"

	// ZoomTimestampHeader carries the timestamp signed into a Zoom webhook signature
	ZoomTimestampHeader string = "x-zm-request-timestamp"
)

// CORS values returned on the webhook preflight.
const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "POST, OPTIONS"
	CORSAllowHeaders = "Content-Type, x-zm-signature, x-zm-request-timestamp"
	CORSMaxAge       = "86400"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// contextAuthorization is the type for the authorization context key
type contextAuthorization string

// AuthorizationContextID is the context ID for the authorization
const AuthorizationContextID contextAuthorization = "authorization"

// contextUser is the type for the authenticated user context key
type contextUser string

// UserContextID is the context ID for the authenticated user
const UserContextID contextUser = "user"
