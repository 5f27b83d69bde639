package instance

import "os"

// GetID names this worker replica in startup logs so lock contention
// between replicas can be traced to a process. Falls back to a single
// default for local runs without WORKER_ID set.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
