package instance

import "os"

const fallbackID = "local"

// GetID names the running replica for logs. CANTEEN_INSTANCE_ID wins, then the
// platform's DYNO, then the hostname.
func GetID() string {
	for _, key := range []string{"CANTEEN_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
