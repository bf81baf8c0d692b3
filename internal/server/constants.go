package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
	ErrMsgNoHijack        = "response writer does not support hijacking"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgWebhookOpen      = "API_KEY is empty; payment webhook accepts unauthenticated requests"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Paths that are served without request logging
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)

// Rate limiting and timeouts
const (
	RateLimitWindow      = 5 * time.Minute
	RateLimitMaxRequests = 1000
	FailedAuthAlertAt    = 5
	HighRateLogEvery     = 100
	MaxRequestBodyBytes  = 1 << 20
	ReadHeaderTimeout    = 5 * time.Second
	IdleTimeout          = 60 * time.Second
	APIRequestTimeout    = 10 * time.Second
)
