package utils

import (
	"regexp"
	"strings"
)

// SensitivePatterns contains regex patterns for credentials that may end up
// in request logs.
var SensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(authorization:\s*bearer\s+)([a-zA-Z0-9_\-+/=.]{8,})`),
	regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_\-+/=.]{8,})`),
	regexp.MustCompile(`(?i)(auth[_-]?token|api[_-]?key|secret|password)['"]?\s*[:=]\s*['"]?([a-zA-Z0-9_\-+/=.]{8,})['"]?`),
}

// SanitizeLog removes sensitive information from log messages
func SanitizeLog(message string) string {
	result := message

	for _, pattern := range SensitivePatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			groups := pattern.FindStringSubmatch(match)
			if len(groups) < 3 {
				return "***REDACTED***"
			}
			// Keep everything up to the secret so the log line stays readable.
			idx := strings.LastIndex(match, groups[2])
			if idx < 0 {
				return "***REDACTED***"
			}
			return match[:idx] + "***REDACTED***" + match[idx+len(groups[2]):]
		})
	}

	return result
}

// MaskToken returns a display-safe form of a credential.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
