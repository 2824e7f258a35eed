package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"github.com/stefiix92/unbreakable24/internal/shared/geo"

	"github.com/go-playground/validator/v10"
)

// WipeConfirmation must be sent verbatim to wipe all data.
const WipeConfirmation = "CONFIRM"

// LocationTopic is the stream topic recorded samples are published on.
const LocationTopic = "location"

// Broadcaster fans recorded samples out to live readers.
type Broadcaster interface {
	Broadcast(topic string, payload []byte)
}

// Tracker ingests location samples and folds their incremental distance
// into the active session through the Ledger.
type Tracker struct {
	store    Store
	ledger   *Ledger
	hub      Broadcaster
	validate *validator.Validate
	now      func() time.Time
}

func NewTracker(store Store, ledger *Ledger, hub Broadcaster) *Tracker {
	return &Tracker{
		store:    store,
		ledger:   ledger,
		hub:      hub,
		validate: validator.New(),
		now:      time.Now,
	}
}

// RecordSample stores a new sample linked to the latest prior one. The whole
// operation runs in one transaction holding the active session's row lock,
// so concurrent samples are applied one after another and no increment is
// lost.
func (t *Tracker) RecordSample(ctx context.Context, input SampleInput) (LocationSample, error) {
	var sample LocationSample
	err := t.store.InTx(ctx, func(tx Store) error {
		ledger := t.ledger.bind(tx)
		session, err := ledger.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if err := t.validateSample(input); err != nil {
			return err
		}

		sample = LocationSample{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
			Timestamp: t.now().UTC(),
		}
		prev, err := tx.LatestLocation(ctx)
		switch {
		case err == nil:
			sample.Distance = geo.HaversineKm(prev.Latitude, prev.Longitude, sample.Latitude, sample.Longitude)
		case !errors.Is(err, ErrNotFound):
			return storeError("load previous location", err)
		}

		if err := ledger.AccrueDistance(ctx, session.ID, sample.Distance); err != nil {
			return err
		}
		sample, err = tx.InsertLocation(ctx, sample)
		if err != nil {
			return storeError("save location", err)
		}
		return nil
	})
	if err != nil {
		return LocationSample{}, asTrackingError("record location", err)
	}

	if t.hub != nil {
		payload, _ := json.Marshal(sample)
		t.hub.Broadcast(LocationTopic, payload)
	}
	return sample, nil
}

func (t *Tracker) validateSample(input SampleInput) error {
	if err := t.validate.Struct(input); err != nil {
		return validationError("Latitude and Longitude are required")
	}
	for _, v := range []float64{*input.Latitude, *input.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validationError("Latitude and Longitude must be finite numbers")
		}
	}
	return nil
}

// LatestLocation returns the most recent sample, or nil when none exist.
func (t *Tracker) LatestLocation(ctx context.Context) (*LocationSample, error) {
	sample, err := t.store.LatestLocation(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("load latest location", err)
	}
	return &sample, nil
}

func (t *Tracker) CurrentSummary(ctx context.Context) (Summary, error) {
	return t.ledger.Summary(ctx)
}

// WipeAll deletes every location and session in a single transaction.
func (t *Tracker) WipeAll(ctx context.Context, confirm string) error {
	if confirm != WipeConfirmation {
		return validationError("Confirmation string is required")
	}
	err := t.store.InTx(ctx, func(tx Store) error {
		locations, err := tx.DeleteLocations(ctx)
		if err != nil {
			return storeError("delete locations", err)
		}
		sessions, err := tx.DeleteSessions(ctx)
		if err != nil {
			return storeError("delete sessions", err)
		}
		log.Printf("wipe: removed %d locations and %d sessions", locations, sessions)
		return nil
	})
	if err != nil {
		return asTrackingError("wipe data", err)
	}
	return nil
}

// asTrackingError passes tracking errors through and classifies anything
// else (begin/commit failures) as a store error.
func asTrackingError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return storeError(op, err)
}
