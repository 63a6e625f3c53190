// Package service contains the business logic for the SafeSafar API.
// Services validate inputs, enforce ownership and lifecycle guards, and
// orchestrate repo and scoring-client calls. No SQL and no HTTP live
// here — services depend on interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/safesafar/backend/internal/domain"
	"github.com/safesafar/backend/internal/repo"
	"github.com/safesafar/backend/internal/safety"
)

// SafetyChecker is the outbound scoring collaborator TripService depends
// on. Defined here, in the consumer package, so tests can inject a fake
// without standing up an HTTP server.
type SafetyChecker interface {
	CheckRoute(ctx context.Context, waypoints []domain.Waypoint) (domain.SafetyReport, error)
}

// TripService implements the trip lifecycle: create, read, update, delete
// while PENDING; activate; complete; and on-demand route safety checks.
// Every operation takes the already-verified owner identity as an explicit
// parameter — there is no ambient auth state in this package.
//
// The service is stateless; concurrent calls against the same trip are
// resolved by the repo's status-guarded writes.
type TripService struct {
	trips  repo.TripRepo
	safety SafetyChecker
}

// NewTripService constructs a TripService backed by the provided repo and
// scoring client.
func NewTripService(trips repo.TripRepo, safetyClient SafetyChecker) *TripService {
	return &TripService{trips: trips, safety: safetyClient}
}

// TripPatch carries the optional route replacements for Update.
// Nil fields are left unchanged.
type TripPatch struct {
	StartLocation *domain.NamedCoordinate
	Stops         *[]domain.NamedCoordinate
	Destination   *domain.NamedCoordinate
}

// Create validates and persists a new PENDING trip for ownerID.
// The start location and destination must each carry a name and
// coordinates; stops may be sparse (points without coordinates are simply
// skipped by safety checks later).
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, start domain.NamedCoordinate, stops []domain.NamedCoordinate, dest domain.NamedCoordinate) (domain.Trip, error) {
	if err := validateEndpoint(start, "start location"); err != nil {
		return domain.Trip{}, err
	}
	if err := validateEndpoint(dest, "destination"); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		OwnerID:       ownerID,
		TripCode:      domain.NewTripCode(),
		StartLocation: start.Normalized(),
		Stops:         normalizeStops(stops),
		Destination:   dest.Normalized(),
		Status:        domain.StatusPending,
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single trip, enforcing ownership.
func (s *TripService) Get(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// ListMine returns all of the owner's trips, newest created first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListMine: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update replaces the supplied route fields of a PENDING trip. Fields
// absent from the patch are left untouched. Fails with
// domain.ErrInvalidState once the trip has left PENDING.
func (s *TripService) Update(ctx context.Context, ownerID, tripID uuid.UUID, patch TripPatch) (domain.Trip, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if trip.Status != domain.StatusPending {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: can only edit PENDING trips", domain.ErrInvalidState)
	}

	if patch.StartLocation != nil {
		trip.StartLocation = patch.StartLocation.Normalized()
	}
	if patch.Stops != nil {
		trip.Stops = normalizeStops(*patch.Stops)
	}
	if patch.Destination != nil {
		trip.Destination = patch.Destination.Normalized()
	}

	result, err := s.trips.UpdateRoute(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete erases a PENDING trip.
func (s *TripService) Delete(ctx context.Context, ownerID, tripID uuid.UUID) error {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if trip.Status != domain.StatusPending {
		return fmt.Errorf("service.TripService.Delete: %w: can only delete PENDING trips", domain.ErrInvalidState)
	}

	if err := s.trips.Delete(ctx, trip.ID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Activate transitions a PENDING trip to ACTIVE and stamps startedAt.
func (s *TripService) Activate(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Activate: %w", err)
	}
	if !trip.Status.CanAdvanceTo(domain.StatusActive) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Activate: %w: can only activate PENDING trips", domain.ErrInvalidState)
	}

	result, err := s.trips.Activate(ctx, trip.ID, time.Now().UTC())
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Activate: %w", err)
	}
	return result, nil
}

// Complete transitions an ACTIVE trip to COMPLETED, flushing the
// client-accumulated histories in one write. The supplied collections are
// stored verbatim, preserving their order; the average safety score is
// computed from the flushed history (nil when the history is empty).
func (s *TripService) Complete(ctx context.Context, ownerID, tripID uuid.UUID, safetyHistory []domain.SafetyCheckEntry, locationHistory []domain.LocationPoint, durationMS int64) (domain.Trip, error) {
	if durationMS < 0 {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w: duration must not be negative", domain.ErrValidation)
	}

	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w", err)
	}
	if !trip.Status.CanAdvanceTo(domain.StatusCompleted) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w: can only complete ACTIVE trips", domain.ErrInvalidState)
	}

	if safetyHistory == nil {
		safetyHistory = []domain.SafetyCheckEntry{}
	}
	if locationHistory == nil {
		locationHistory = []domain.LocationPoint{}
	}

	now := time.Now().UTC()
	trip.CompletedAt = &now
	trip.DurationMS = durationMS
	trip.SafetyHistory = safetyHistory
	trip.LocationHistory = locationHistory
	trip.AverageSafetyScore = safety.Average(safetyHistory)

	result, err := s.trips.Complete(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w", err)
	}
	return result, nil
}

// CheckSafety scores the trip's current route against the external
// scoring service and reattaches the traveller's waypoint names to the
// report. The trip itself is never mutated: a failed or timed-out
// upstream call leaves it exactly as it was.
func (s *TripService) CheckSafety(ctx context.Context, ownerID, tripID uuid.UUID) (domain.SafetyCheck, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return domain.SafetyCheck{}, fmt.Errorf("service.TripService.CheckSafety: %w", err)
	}

	waypoints := trip.RouteWaypoints()
	if len(waypoints) == 0 {
		return domain.SafetyCheck{}, fmt.Errorf("service.TripService.CheckSafety: %w: no valid waypoints in trip", domain.ErrValidation)
	}

	report, err := s.safety.CheckRoute(ctx, waypoints)
	if err != nil {
		return domain.SafetyCheck{}, fmt.Errorf("service.TripService.CheckSafety: %w", err)
	}

	correlated, err := safety.Correlate(waypoints, report)
	if err != nil {
		return domain.SafetyCheck{}, fmt.Errorf("service.TripService.CheckSafety: %w", err)
	}

	return domain.SafetyCheck{
		Trip:   domain.TripRef{ID: trip.ID, Name: trip.DisplayName()},
		Safety: correlated,
	}, nil
}

// ownedTrip fetches a trip and enforces that ownerID owns it.
// The not-found check runs first so callers cannot probe for the
// existence of other users' trips.
func (s *TripService) ownedTrip(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.OwnerID != ownerID {
		return domain.Trip{}, fmt.Errorf("%w: trip belongs to another user", domain.ErrForbidden)
	}
	return trip, nil
}

// validateEndpoint enforces the rule shared by Create for both route
// endpoints: a usable endpoint needs a non-blank name and a coordinate
// fix.
func validateEndpoint(nc domain.NamedCoordinate, field string) error {
	if strings.TrimSpace(nc.Name) == "" {
		return fmt.Errorf("%w: %s name is required", domain.ErrValidation, field)
	}
	if nc.Coords == nil {
		return fmt.Errorf("%w: %s coordinates are required", domain.ErrValidation, field)
	}
	return nil
}

// normalizeStops truncates stop names and guarantees a non-nil slice so
// the jsonb column always stores an array.
func normalizeStops(stops []domain.NamedCoordinate) []domain.NamedCoordinate {
	out := make([]domain.NamedCoordinate, len(stops))
	for i, s := range stops {
		out[i] = s.Normalized()
	}
	return out
}
