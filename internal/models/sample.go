package models

// GeoSample represents one GPS fix admitted into a session path
type GeoSample struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Timestamp int64    `json:"timestamp"`          // monotonic milliseconds
	Accuracy  *float64 `json:"accuracy,omitempty"` // horizontal accuracy in meters
	Speed     *float64 `json:"speed,omitempty"`    // reported speed in m/s
}

// Path is the ordered sequence of admitted samples for one session.
// Insertion-ordered, indices are stable, no deletions during a session.
type Path []GeoSample
