package models

// GaitLabel identifies a mode of equine locomotion
type GaitLabel string

// Gait constants
const (
	GaitHalt   GaitLabel = "halt"
	GaitWalk   GaitLabel = "walk"
	GaitTrot   GaitLabel = "trot"
	GaitCanter GaitLabel = "canter"
	GaitGallop GaitLabel = "gallop"
)

// GaitOrder is the stable ordering used to break predominant-gait ties
var GaitOrder = []GaitLabel{GaitWalk, GaitTrot, GaitCanter, GaitGallop, GaitHalt}

// GaitSegment is a contiguous subrange of the path with a single gait label
type GaitSegment struct {
	Gait         GaitLabel `json:"gait"`
	StartTime    int64     `json:"startTime"` // milliseconds
	EndTime      int64     `json:"endTime"`   // milliseconds
	Duration     float64   `json:"duration"`  // seconds
	Distance     float64   `json:"distance"`  // meters
	AverageSpeed float64   `json:"averageSpeed"`
	StartIndex   int       `json:"startIndex"` // inclusive index into path
	EndIndex     int       `json:"endIndex"`   // inclusive index into path
}

// GaitAnalysis is the derived gait report for a finished session
type GaitAnalysis struct {
	TotalDuration   float64               `json:"totalDuration"` // seconds
	GaitDurations   map[GaitLabel]float64 `json:"gaitDurations"`
	GaitPercentages map[GaitLabel]float64 `json:"gaitPercentages"`
	Segments        []GaitSegment         `json:"segments"`
	TransitionCount int                   `json:"transitionCount"`
	PredominantGait GaitLabel             `json:"predominantGait"`
}
