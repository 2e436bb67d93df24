// Package models holds the rate limiting vocabulary shared by stores and middleware.
package models

import "time"

// EndpointClass groups routes that share a quota.
type EndpointClass string

const (
	// ClassWrite covers submissions, treatments, comments and appeals.
	ClassWrite EndpointClass = "write"
	// ClassRead covers listings and lookups.
	ClassRead EndpointClass = "read"
)

// Limit is a sliding-window quota.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitResult reports a single quota decision.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// Key builds the bucket key for an actor and endpoint class.
func Key(class EndpointClass, actor string) string {
	return "ratelimit:" + string(class) + ":" + actor
}
