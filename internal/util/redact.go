package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(api|secret|token|key|password)([=:]\s*)[A-Za-z0-9\-_]{8,}`)
)

// RedactPII masks e-mail addresses and credential-looking key=value pairs.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "${1}${2}[redacted]")
	return s
}
