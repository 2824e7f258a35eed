package tracking

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions and locations in process. Every call holds a
// single mutex, so conditional inserts and increments are trivially atomic
// and InTx is serialisable. Used by the memory store driver and in tests.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	sessions       []Session
	locations      []LocationSample
	nextLocationID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, data: &memoryData{}}
}

func (m *MemoryStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemoryStore) InsertOpenSession(_ context.Context, s Session) error {
	defer m.lock()()
	if _, ok := m.data.openIndex(); ok {
		return ErrOpenSessionExists
	}
	m.data.sessions = append(m.data.sessions, s)
	return nil
}

func (m *MemoryStore) OpenSession(_ context.Context) (Session, error) {
	defer m.lock()()
	i, ok := m.data.openIndex()
	if !ok {
		return Session{}, ErrNotFound
	}
	return m.data.sessions[i], nil
}

func (m *MemoryStore) LatestSession(_ context.Context) (Session, error) {
	defer m.lock()()
	i, ok := m.data.latestIndex(false)
	if !ok {
		return Session{}, ErrNotFound
	}
	return m.data.sessions[i], nil
}

func (m *MemoryStore) CloseOpenSession(_ context.Context, endTime time.Time) (Session, error) {
	defer m.lock()()
	i, ok := m.data.openIndex()
	if !ok {
		return Session{}, ErrNotFound
	}
	end := endTime
	m.data.sessions[i].EndTime = &end
	return m.data.sessions[i], nil
}

func (m *MemoryStore) AddDistance(_ context.Context, sessionID string, delta float64) error {
	defer m.lock()()
	for i := range m.data.sessions {
		s := &m.data.sessions[i]
		if s.ID == sessionID && s.Active() {
			s.Distance += delta
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) LatestLocation(_ context.Context) (LocationSample, error) {
	defer m.lock()()
	var (
		latest LocationSample
		found  bool
	)
	for _, l := range m.data.locations {
		if !found || l.Timestamp.After(latest.Timestamp) ||
			(l.Timestamp.Equal(latest.Timestamp) && l.ID > latest.ID) {
			latest = l
			found = true
		}
	}
	if !found {
		return LocationSample{}, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) InsertLocation(_ context.Context, sample LocationSample) (LocationSample, error) {
	defer m.lock()()
	m.data.nextLocationID++
	sample.ID = m.data.nextLocationID
	m.data.locations = append(m.data.locations, sample)
	return sample, nil
}

func (m *MemoryStore) DeleteLocations(_ context.Context) (int64, error) {
	defer m.lock()()
	n := int64(len(m.data.locations))
	m.data.locations = nil
	return n, nil
}

func (m *MemoryStore) DeleteSessions(_ context.Context) (int64, error) {
	defer m.lock()()
	n := int64(len(m.data.sessions))
	m.data.sessions = nil
	return n, nil
}

// InTx holds the store lock for the whole of fn and restores the previous
// contents if fn fails.
func (m *MemoryStore) InTx(_ context.Context, fn func(Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(&MemoryStore{mu: m.mu, data: m.data, inTx: true}); err != nil {
		*m.data = snapshot
		return err
	}
	return nil
}

func (d *memoryData) openIndex() (int, bool) {
	return d.latestIndex(true)
}

func (d *memoryData) latestIndex(openOnly bool) (int, bool) {
	idx := -1
	for i, s := range d.sessions {
		if openOnly && !s.Active() {
			continue
		}
		if idx < 0 || !s.StartTime.Before(d.sessions[idx].StartTime) {
			idx = i
		}
	}
	return idx, idx >= 0
}

func (d *memoryData) clone() memoryData {
	c := memoryData{nextLocationID: d.nextLocationID}
	c.sessions = append([]Session(nil), d.sessions...)
	c.locations = append([]LocationSample(nil), d.locations...)
	return c
}
