package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(local) <= 1 {
		return local + "***@" + domain
	}
	return local[:1] + "***@" + domain
}

// MaskKey keeps the prefix of a license key and hides the rest.
// Example: "G1-9F2A4C..." -> "G1-9F2A****"
func MaskKey(key string) string {
	const visible = 7
	if len(key) <= visible {
		return "****"
	}
	return key[:visible] + "****"
}
