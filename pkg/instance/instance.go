package instance

import (
	"os"
	"strings"
)

const envInstanceID = "LEADDESK_INSTANCE_ID"

// GetID names the running process in logs and lock owners. It prefers
// LEADDESK_INSTANCE_ID, then DYNO, then the hostname.
func GetID() string {
	for _, key := range []string{envInstanceID, "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
