package tracking

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by a Store when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOpenSessionExists is returned by InsertOpenSession when another
	// session has no end time.
	ErrOpenSessionExists = errors.New("open session exists")
)

// Store is the durable state shared by the Ledger and the Tracker.
// Implementations must make InsertOpenSession a conditional insert and
// AddDistance an atomic increment; neither may be a read-then-write.
type Store interface {
	InsertOpenSession(ctx context.Context, s Session) error
	OpenSession(ctx context.Context) (Session, error)
	LatestSession(ctx context.Context) (Session, error)
	CloseOpenSession(ctx context.Context, endTime time.Time) (Session, error)
	AddDistance(ctx context.Context, sessionID string, delta float64) error

	LatestLocation(ctx context.Context) (LocationSample, error)
	InsertLocation(ctx context.Context, sample LocationSample) (LocationSample, error)

	DeleteLocations(ctx context.Context) (int64, error)
	DeleteSessions(ctx context.Context) (int64, error)

	// InTx runs fn against a Store bound to a single transaction. Inside the
	// transaction OpenSession locks the returned row until commit. Nested
	// calls reuse the outer transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}
