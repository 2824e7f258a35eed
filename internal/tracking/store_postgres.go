package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/stefiix92/unbreakable24/internal/db"

	"github.com/jackc/pgx/v5"
)

type PostgresStore struct {
	db   db.Querier
	inTx bool
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) InsertOpenSession(ctx context.Context, session Session) error {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO sessions (id, start_time, distance)
		VALUES ($1,$2,$3)
		ON CONFLICT DO NOTHING
		RETURNING id
	`, session.ID, session.StartTime, session.Distance).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOpenSessionExists
	}
	return err
}

func (s *PostgresStore) OpenSession(ctx context.Context) (Session, error) {
	query := `
		SELECT id, start_time, end_time, distance
		FROM sessions
		WHERE end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`
	if s.inTx {
		query += ` FOR UPDATE`
	}
	return scanSession(s.db.QueryRow(ctx, query))
}

func (s *PostgresStore) LatestSession(ctx context.Context) (Session, error) {
	return scanSession(s.db.QueryRow(ctx, `
		SELECT id, start_time, end_time, distance
		FROM sessions
		ORDER BY start_time DESC
		LIMIT 1
	`))
}

func (s *PostgresStore) CloseOpenSession(ctx context.Context, endTime time.Time) (Session, error) {
	return scanSession(s.db.QueryRow(ctx, `
		UPDATE sessions
		SET end_time=$1
		WHERE end_time IS NULL
		RETURNING id, start_time, end_time, distance
	`, endTime))
}

func (s *PostgresStore) AddDistance(ctx context.Context, sessionID string, delta float64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE sessions
		SET distance = distance + $2
		WHERE id=$1 AND end_time IS NULL
	`, sessionID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) LatestLocation(ctx context.Context) (LocationSample, error) {
	var l LocationSample
	err := s.db.QueryRow(ctx, `
		SELECT id, latitude, longitude, distance, recorded_at
		FROM locations
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`).Scan(&l.ID, &l.Latitude, &l.Longitude, &l.Distance, &l.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return LocationSample{}, ErrNotFound
	}
	if err != nil {
		return LocationSample{}, err
	}
	return l, nil
}

func (s *PostgresStore) InsertLocation(ctx context.Context, sample LocationSample) (LocationSample, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO locations (latitude, longitude, distance, recorded_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, sample.Latitude, sample.Longitude, sample.Distance, sample.Timestamp)
	if err := row.Scan(&sample.ID); err != nil {
		return LocationSample{}, err
	}
	return sample, nil
}

func (s *PostgresStore) DeleteLocations(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM locations`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) DeleteSessions(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&PostgresStore{db: tx, inTx: true}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func scanSession(row pgx.Row) (Session, error) {
	var session Session
	err := row.Scan(&session.ID, &session.StartTime, &session.EndTime, &session.Distance)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	return session, nil
}
