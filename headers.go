package datasmith

import "time"

// DefaultRequestDelay is the base delay applied before each network request.
// Backends scale it by a random jitter factor in [0.5, 1.5) to avoid
// synchronized request bursts that trip rate limiters.
const DefaultRequestDelay = 1500 * time.Millisecond

// DefaultHeaders returns the HTTP headers attached to every fetch request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}
