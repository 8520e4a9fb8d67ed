package instance

import "os"

// ID identifies this server process in logs: PRICESNAP_INSTANCE_ID, then the
// platform DYNO name, then the hostname, then "local".
func ID() string {
	for _, key := range []string{"PRICESNAP_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
