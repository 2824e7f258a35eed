package tracking

import "time"

type Session struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Distance  float64    `json:"distance"`
}

// Active reports whether the session has not been ended yet.
func (s Session) Active() bool {
	return s.EndTime == nil
}

type LocationSample struct {
	ID        int64     `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Distance  float64   `json:"distance"`
	Timestamp time.Time `json:"timestamp"`
}

type Summary struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Distance  float64    `json:"distance"`
}

// SampleInput is the body of a location update. Pointers distinguish a
// missing coordinate from a zero one.
type SampleInput struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

type WipeInput struct {
	Confirm string `json:"confirm"`
}
