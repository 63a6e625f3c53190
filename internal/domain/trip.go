// Package domain contains the core data types for the SafeSafar API.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"crypto/rand"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip. A trip only ever advances
// PENDING → ACTIVE → COMPLETED; there is no reverse or skip transition.
type TripStatus string

const (
	StatusPending   TripStatus = "PENDING"
	StatusActive    TripStatus = "ACTIVE"
	StatusCompleted TripStatus = "COMPLETED"
)

// CanAdvanceTo reports whether moving from s to next is a legal lifecycle
// transition.
func (s TripStatus) CanAdvanceTo(next TripStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted
	default:
		return false
	}
}

// maxNameLen is the display limit for route point names.
const maxNameLen = 50

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NamedCoordinate is a route point with a human-readable display name.
// Coords is nil when the point has no geographic fix; such points are
// skipped when building safety-check waypoints.
type NamedCoordinate struct {
	Name   string       `json:"name"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// Normalized returns a copy with the name truncated to the display limit.
func (n NamedCoordinate) Normalized() NamedCoordinate {
	r := []rune(n.Name)
	if len(r) > maxNameLen {
		n.Name = string(r[:maxNameLen])
	}
	return n
}

// SafetyCheckEntry is a single scoring event recorded while a trip was
// active. Entries are append-only and keep their client-supplied order.
// Details is an opaque payload from the scoring client, stored verbatim.
type SafetyCheckEntry struct {
	Score     float64         `json:"score"`
	Timestamp time.Time       `json:"timestamp"`
	Location  Coordinates     `json:"location"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// LocationPoint is one fix on a trip's tracked path.
type LocationPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// Trip is the central aggregate: a route, its lifecycle status, and the
// histories accumulated while travelling it.
//
// StartedAt is set exactly once at activation, CompletedAt exactly once at
// completion. SafetyHistory, LocationHistory, DurationMS, and
// AverageSafetyScore are written in a single bulk replace at completion
// and are immutable afterwards.
type Trip struct {
	ID            uuid.UUID         `json:"id"`
	OwnerID       uuid.UUID         `json:"ownerId"`
	TripCode      string            `json:"tripCode"`
	StartLocation NamedCoordinate   `json:"startLocation"`
	Stops         []NamedCoordinate `json:"stops"`
	Destination   NamedCoordinate   `json:"destination"`
	Status        TripStatus        `json:"status"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// DurationMS is the trip duration in milliseconds as reported by the
	// tracking client at completion.
	DurationMS         int64              `json:"duration"`
	SafetyHistory      []SafetyCheckEntry `json:"safetyHistory"`
	LocationHistory    []LocationPoint    `json:"locationHistory"`
	AverageSafetyScore *float64           `json:"averageSafetyScore,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName is the short human-readable name shown for the trip,
// e.g. "Connaught Place → India Gate".
func (t Trip) DisplayName() string {
	return t.StartLocation.Name + " → " + t.Destination.Name
}

// RouteWaypoints builds the ordered waypoint list for a safety check:
// the start location (label "Start"), each stop ("Stop N", 1-indexed),
// then the destination ("Destination"). Route points without coordinates
// are skipped, so the result may be shorter than the route itself — or
// empty when no point carries a fix.
func (t Trip) RouteWaypoints() []Waypoint {
	var wps []Waypoint
	if t.StartLocation.Coords != nil {
		wps = append(wps, Waypoint{
			Lat:   t.StartLocation.Coords.Lat,
			Lon:   t.StartLocation.Coords.Lng,
			Label: "Start",
			Name:  t.StartLocation.Name,
		})
	}
	for i, stop := range t.Stops {
		if stop.Coords == nil {
			continue
		}
		wps = append(wps, Waypoint{
			Lat:   stop.Coords.Lat,
			Lon:   stop.Coords.Lng,
			Label: "Stop " + strconv.Itoa(i+1),
			Name:  stop.Name,
		})
	}
	if t.Destination.Coords != nil {
		wps = append(wps, Waypoint{
			Lat:   t.Destination.Coords.Lat,
			Lon:   t.Destination.Coords.Lng,
			Label: "Destination",
			Name:  t.Destination.Name,
		})
	}
	return wps
}

// tripCodeAlphabet is the character set for shareable trip codes.
const tripCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTripCode generates a human-shareable trip code: the fixed "TRIP-"
// prefix followed by 9 uppercase alphanumeric characters. Codes are
// random, not guaranteed unique — the trips table's unique index is the
// arbiter of collisions.
func NewTripCode() string {
	buf := make([]byte, 9)
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = tripCodeAlphabet[int(b)%len(tripCodeAlphabet)]
	}
	return "TRIP-" + string(buf)
}
