package tracking

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Ledger owns the single "current session" slot and its running distance.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// bind returns a Ledger operating on store, typically a transaction.
func (l *Ledger) bind(store Store) *Ledger {
	return &Ledger{store: store, now: l.now}
}

func (l *Ledger) StartSession(ctx context.Context) (Session, error) {
	session := Session{
		ID:        uuid.NewString(),
		StartTime: l.now().UTC(),
	}
	err := l.store.InsertOpenSession(ctx, session)
	if errors.Is(err, ErrOpenSessionExists) {
		return Session{}, conflictError("An active session already exists")
	}
	if err != nil {
		return Session{}, storeError("start session", err)
	}
	return session, nil
}

// ActiveSession returns the most recently started session that has not been
// ended.
func (l *Ledger) ActiveSession(ctx context.Context) (Session, error) {
	session, err := l.store.OpenSession(ctx)
	if errors.Is(err, ErrNotFound) {
		return Session{}, noActiveSessionError()
	}
	if err != nil {
		return Session{}, storeError("load active session", err)
	}
	return session, nil
}

// EndSession stamps the active session's end time. Ending twice fails: a
// closed session's end time and distance are never rewritten.
func (l *Ledger) EndSession(ctx context.Context) (Session, error) {
	session, err := l.store.CloseOpenSession(ctx, l.now().UTC())
	if errors.Is(err, ErrNotFound) {
		return Session{}, noActiveSessionError()
	}
	if err != nil {
		return Session{}, storeError("end session", err)
	}
	return session, nil
}

// AccrueDistance atomically adds delta kilometres to the session identified
// by sessionID, provided it is still open.
func (l *Ledger) AccrueDistance(ctx context.Context, sessionID string, delta float64) error {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return validationError("distance increment must be a non-negative number")
	}
	err := l.store.AddDistance(ctx, sessionID, delta)
	if errors.Is(err, ErrNotFound) {
		return noActiveSessionError()
	}
	if err != nil {
		return storeError("accrue distance", err)
	}
	return nil
}

// Summary describes the most recently started session, ended or not.
func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	session, err := l.store.LatestSession(ctx)
	if errors.Is(err, ErrNotFound) {
		return Summary{}, noActiveSessionError()
	}
	if err != nil {
		return Summary{}, storeError("load session", err)
	}
	return Summary{
		ID:        session.ID,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Distance:  session.Distance,
	}, nil
}
