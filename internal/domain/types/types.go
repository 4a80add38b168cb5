// Package types contains common types used across the application
package types

// GuessRecord mirrors a stored guess in API responses.
type GuessRecord struct {
	TargetID string  `json:"target_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Score    float64 `json:"score"`
}

// Estimate is the outbound location estimate for a target.
type Estimate struct {
	TargetID string  `json:"target_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}
