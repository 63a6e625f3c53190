package domain

import "github.com/google/uuid"

// SafetyStatus classifies a safety score: SAFE, MODERATE, or RISKY.
type SafetyStatus string

const (
	SafetySafe     SafetyStatus = "SAFE"
	SafetyModerate SafetyStatus = "MODERATE"
	SafetyRisky    SafetyStatus = "RISKY"
)

// Waypoint is a single route point sent to the safety-scoring service.
// Label is positional ("Start", "Stop 1", ..., "Destination"); Name is the
// traveller's display name for the point.
type Waypoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// ScoredWaypoint is one entry of the scoring service's response arrays.
// Label and Name are optional in the raw response; the correlator fills
// them in from the request waypoints.
type ScoredWaypoint struct {
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	SafetyScore float64      `json:"safety_score"`
	Status      SafetyStatus `json:"status"`
	Description string       `json:"description,omitempty"`
	Label       string       `json:"label,omitempty"`
	Name        string       `json:"name,omitempty"`
}

// SafetyReport is the scoring service's verdict on a route.
//
// Waypoints mirrors the request list in length and order (the positional
// contract the correlator relies on). UnsafeAreas is a risk-filtered
// subset in no guaranteed order.
type SafetyReport struct {
	AverageSafety float64          `json:"average_safety"`
	RouteStatus   SafetyStatus     `json:"route_status"`
	UnsafeCount   int              `json:"unsafe_count"`
	Waypoints     []ScoredWaypoint `json:"waypoints"`
	UnsafeAreas   []ScoredWaypoint `json:"unsafe_areas"`
}

// TripRef is the short trip summary embedded in a safety-check response.
type TripRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SafetyCheck is the result of scoring a trip's route on demand.
type SafetyCheck struct {
	Trip   TripRef      `json:"trip"`
	Safety SafetyReport `json:"safety"`
}
