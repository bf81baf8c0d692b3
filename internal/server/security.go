package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// AuthMiddleware validates the API key on the routes it wraps. An empty key
// disables the check; config validation forbids that in production.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)

			// Use constant time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				log := logger.FromContext(r.Context())
				log.Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector tracks and alerts on suspicious patterns
type SuspiciousActivityDetector struct {
	mu               sync.Mutex
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	lastResetTime    time.Time
	maxRequests      int
	now              func() time.Time
}

// NewSuspiciousActivityDetector creates a detector allowing maxRequests per
// client IP in each RateLimitWindow
func NewSuspiciousActivityDetector(maxRequests int) *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
		lastResetTime:    time.Now(),
		maxRequests:      maxRequests,
		now:              time.Now,
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCountsIfNeeded()
	s.failedAuthByIP[ip]++

	if s.failedAuthByIP[ip] >= FailedAuthAlertAt {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", s.failedAuthByIP[ip])
	}
}

// RecordRequest records a request for rate monitoring and returns false if rate limit exceeded
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCountsIfNeeded()
	s.requestCountByIP[ip]++

	if s.requestCountByIP[ip] > s.maxRequests {
		if s.requestCountByIP[ip]%HighRateLogEvery == 0 {
			slog.Warn(SecurityAlertHighRate,
				"ip", ip,
				"count_in_window", s.requestCountByIP[ip])
		}
		return false
	}
	return true
}

// resetCountsIfNeeded resets counters if the time window has passed
// Caller must hold the mutex
func (s *SuspiciousActivityDetector) resetCountsIfNeeded() {
	now := s.now()
	if now.Sub(s.lastResetTime) > RateLimitWindow {
		s.requestCountByIP = make(map[string]int)
		s.failedAuthByIP = make(map[string]int)
		s.lastResetTime = now
	}
}

// RateLimitMiddleware rejects clients that exceed the detector's request budget
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)
			if !detector.RecordRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	isTrusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			isTrusted = true
			break
		}
	}

	if isTrusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// rightmost entry is the hop our trusted proxy saw
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
