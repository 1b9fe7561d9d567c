package domain

import "time"

// Token carries the claims of an upstream access token accepted by the gateway.
type Token struct {
	SubjectID string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Raw       string
}
