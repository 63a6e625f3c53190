// Package handler implements the HTTP layer of the SafeSafar API: request
// decoding, identity extraction, service dispatch, and error mapping.
// Handlers are methods on Server, split into resource-specific files, all
// sharing the same struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/safesafar/backend/internal/domain"
	"github.com/safesafar/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, start domain.NamedCoordinate, stops []domain.NamedCoordinate, dest domain.NamedCoordinate) (domain.Trip, error)
	Get(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, ownerID, tripID uuid.UUID, patch service.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, ownerID, tripID uuid.UUID) error
	Activate(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error)
	Complete(ctx context.Context, ownerID, tripID uuid.UUID, safetyHistory []domain.SafetyCheckEntry, locationHistory []domain.LocationPoint, durationMS int64) (domain.Trip, error)
	CheckSafety(ctx context.Context, ownerID, tripID uuid.UUID) (domain.SafetyCheck, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	trips TripServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer) *Server {
	return &Server{trips: trips}
}

// NewRouter wires the full route table. Every /trips route runs behind
// authMW, which resolves the bearer token into an owner identity; the
// health endpoint stays open. Both main.go and the handler tests mount
// the API through this function so they exercise the same routing.
func NewRouter(s *Server, authMW func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
		r.Patch("/{id}/activate", s.ActivateTrip)
		r.Patch("/{id}/complete", s.CompleteTrip)
		r.Post("/{id}/check-safety", s.CheckTripSafety)
	})

	return r
}
