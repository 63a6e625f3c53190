package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/safesafar/backend/internal/domain"
	"github.com/safesafar/backend/internal/middleware"
	"github.com/safesafar/backend/internal/service"
)

// createTripRequest is the POST /trips body.
type createTripRequest struct {
	StartLocation domain.NamedCoordinate   `json:"startLocation"`
	Stops         []domain.NamedCoordinate `json:"stops"`
	Destination   domain.NamedCoordinate   `json:"destination"`
}

// updateTripRequest is the PUT /trips/{id} body. Nil fields are left
// unchanged on the trip.
type updateTripRequest struct {
	StartLocation *domain.NamedCoordinate   `json:"startLocation"`
	Stops         *[]domain.NamedCoordinate `json:"stops"`
	Destination   *domain.NamedCoordinate   `json:"destination"`
}

// completeTripRequest is the PATCH /trips/{id}/complete body: the
// histories the tracking client accumulated while the trip was active,
// flushed in one shot.
type completeTripRequest struct {
	SafetyHistory   []domain.SafetyCheckEntry `json:"safetyHistory"`
	LocationHistory []domain.LocationPoint    `json:"locationHistory"`
	Duration        int64                     `json:"duration"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("validation_error", "invalid request body"))
		return
	}

	trip, err := s.trips.Create(r.Context(), ownerID, req.StartLocation, req.Stops, req.Destination)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ListTrips handles GET /trips: the owner's trips, newest first.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.ListMine(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.Get(r.Context(), ownerID, tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{id}. Only PENDING trips can be edited,
// and only the supplied fields are replaced.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	var req updateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("validation_error", "invalid request body"))
		return
	}

	trip, err := s.trips.Update(r.Context(), ownerID, tripID, service.TripPatch{
		StartLocation: req.StartLocation,
		Stops:         req.Stops,
		Destination:   req.Destination,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}. Only PENDING trips can be erased.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), ownerID, tripID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "trip deleted"})
}

// ActivateTrip handles PATCH /trips/{id}/activate.
func (s *Server) ActivateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.Activate(r.Context(), ownerID, tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CompleteTrip handles PATCH /trips/{id}/complete.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	var req completeTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("validation_error", "invalid request body"))
		return
	}

	trip, err := s.trips.Complete(r.Context(), ownerID, tripID, req.SafetyHistory, req.LocationHistory, req.Duration)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CheckTripSafety handles POST /trips/{id}/check-safety.
func (s *Server) CheckTripSafety(w http.ResponseWriter, r *http.Request) {
	ownerID, tripID, ok := ownerAndTrip(w, r)
	if !ok {
		return
	}

	check, err := s.trips.CheckSafety(r.Context(), ownerID, tripID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// owner pulls the authenticated identity out of the request context.
// A missing identity means the route was mounted without the auth
// middleware — a wiring bug, answered with 401 rather than a panic.
func owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("unauthorized", "missing identity"))
		return uuid.Nil, false
	}
	return ownerID, true
}

// ownerAndTrip additionally parses the {id} path parameter. A non-UUID id
// cannot name any trip, so it reads as 404.
func ownerAndTrip(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := owner(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errBody("not_found", "trip not found"))
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, tripID, true
}
