package models

// MediaItem is an opaque media attachment. The engine stores and returns it
// without inspecting uri or kind; the caller owns the media lifecycle.
type MediaItem struct {
	ID        string     `json:"id"`
	URI       string     `json:"uri"`
	Kind      string     `json:"kind"`
	Timestamp int64      `json:"timestamp"`
	Location  *GeoSample `json:"location,omitempty"`
}

// TrainingSession is the durable record of one recorded ride.
// Finalized records are immutable.
type TrainingSession struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	HorseID      string        `json:"horseId"`
	HorseName    string        `json:"horseName"`
	TrainingType string        `json:"trainingType"`
	StartTime    int64         `json:"startTime"` // milliseconds
	EndTime      int64         `json:"endTime"`   // milliseconds
	Duration     float64       `json:"duration"`  // seconds
	Distance     float64       `json:"distance"`  // meters
	AverageSpeed float64       `json:"averageSpeed"`
	MaxSpeed     float64       `json:"maxSpeed"`
	Path         Path          `json:"path"`
	Media        []MediaItem   `json:"media"`
	GaitAnalysis *GaitAnalysis `json:"gaitAnalysis,omitempty"`
}

// SessionDocument is the persisted layout of the session collection
type SessionDocument struct {
	Sessions []TrainingSession `json:"sessions"`
}
