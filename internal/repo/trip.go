// Package repo contains all database access logic for the SafeSafar API.
// No business logic lives here — only SQL and type mapping. Status guards
// that matter under concurrency are enforced in the WHERE clause, so a
// lost race surfaces as an error instead of silently regressing a trip.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/safesafar/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly lets
// integration tests pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// The write methods that carry a lifecycle guard (UpdateRoute, Delete,
// Activate, Complete) match zero rows when the trip's status no longer
// permits the write; they return domain.ErrInvalidState in that case.
// There is no version column: concurrent unguarded writes are
// last-write-wins, which the status guards narrow to transitions that can
// never move a trip backwards.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns all trips owned by ownerID, newest created_at first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)

	// UpdateRoute replaces the route fields of a PENDING trip and returns
	// the updated record.
	UpdateRoute(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a PENDING trip by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// Activate moves a PENDING trip to ACTIVE, recording startedAt.
	Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (domain.Trip, error)

	// Complete moves an ACTIVE trip to COMPLETED, writing the histories,
	// duration, average score, and completedAt carried on trip.
	Complete(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the SELECT/RETURNING column list every query shares, in
// the order scanTrip expects.
const tripColumns = `id, owner_id, trip_code, start_location, stops, destination, status,
	started_at, completed_at, duration_ms, safety_history, location_history,
	average_safety_score, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, trip_code, start_location, stops, destination, status)
		VALUES (@owner_id, @trip_code, @start_location, @stops, @destination, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":       trip.OwnerID,
		"trip_code":      trip.TripCode,
		"start_location": trip.StartLocation,
		"stops":          trip.Stops,
		"destination":    trip.Destination,
		"status":         trip.Status,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, most recently created first.
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// UpdateRoute replaces the route of a PENDING trip.
func (r *pgTripRepo) UpdateRoute(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET start_location = @start_location,
		    stops          = @stops,
		    destination    = @destination,
		    updated_at     = now()
		WHERE id = @id AND status = 'PENDING'
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"start_location": trip.StartLocation,
		"stops":          trip.Stops,
		"destination":    trip.Destination,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if errors.Is(err, domain.ErrNotFound) {
		// The trip either vanished or left PENDING between the service's
		// read and this write.
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateRoute: %w", domain.ErrInvalidState)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateRoute: %w", err)
	}
	return result, nil
}

// Delete removes a PENDING trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND status = 'PENDING'`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrInvalidState)
	}
	return nil
}

// Activate transitions PENDING → ACTIVE and stamps started_at.
func (r *pgTripRepo) Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status     = 'ACTIVE',
		    started_at = @started_at,
		    updated_at = now()
		WHERE id = @id AND status = 'PENDING'
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "started_at": startedAt})
	result, err := scanTrip(row)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Activate: %w", domain.ErrInvalidState)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Activate: %w", err)
	}
	return result, nil
}

// Complete transitions ACTIVE → COMPLETED, flushing the trip's histories.
func (r *pgTripRepo) Complete(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status               = 'COMPLETED',
		    completed_at         = @completed_at,
		    duration_ms          = @duration_ms,
		    safety_history       = @safety_history,
		    location_history     = @location_history,
		    average_safety_score = @average_safety_score,
		    updated_at           = now()
		WHERE id = @id AND status = 'ACTIVE'
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                   trip.ID,
		"completed_at":         trip.CompletedAt,
		"duration_ms":          trip.DurationMS,
		"safety_history":       trip.SafetyHistory,
		"location_history":     trip.LocationHistory,
		"average_safety_score": trip.AverageSafetyScore,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Complete: %w", domain.ErrInvalidState)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Complete: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, nullable timestamp, and jsonb conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		id          pgtype.UUID
		ownerID     pgtype.UUID
		startedAt   pgtype.Timestamptz
		completedAt pgtype.Timestamptz
		avgScore    pgtype.Float8
	)

	err := s.Scan(
		&id, &ownerID, &t.TripCode,
		&t.StartLocation, &t.Stops, &t.Destination, &t.Status,
		&startedAt, &completedAt, &t.DurationMS,
		&t.SafetyHistory, &t.LocationHistory,
		&avgScore, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	if startedAt.Valid {
		ts := startedAt.Time
		t.StartedAt = &ts
	}
	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	if avgScore.Valid {
		v := avgScore.Float64
		t.AverageSafetyScore = &v
	}

	return t, nil
}
