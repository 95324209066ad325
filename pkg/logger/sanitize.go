package logger

import "strings"

// sensitive query parameters that must never appear in logs
var sensitiveParams = []string{"urlid", "token", "code", "password"}

// SanitizeQueryString reports whether the raw query carries a parameter that
// must be redacted before logging.
func SanitizeQueryString(raw string) bool {
	if raw == "" {
		return false
	}
	lowered := strings.ToLower(raw)
	for _, p := range sensitiveParams {
		if strings.Contains(lowered, p+"=") {
			return true
		}
	}
	return false
}

// MaskEmail redacts the local part of an email for log lines. "a@x.com"
// becomes "a***@x.com"; values without an @ are fully masked.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
