// Package persist connects the state store to the durable slot. Loading
// decodes the whole persisted document, routes saved routes through schema
// normalization, and falls back to the seed snapshot when the slot is empty
// or unreadable. Saving is debounced: a burst of mutations collapses into
// one write of the final snapshot.
package persist

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"rimborsikm/internal/migrate"
	"rimborsikm/internal/slot"
	"rimborsikm/internal/store"
	"rimborsikm/pkg/domain"
)

// document is the persisted wire shape. Saved routes stay raw on the way in
// so legacy shapes can be normalized before they become typed.
type document struct {
	People      []domain.Person   `json:"people"`
	Vehicles    []domain.Vehicle  `json:"vehicles"`
	Trips       []domain.Trip     `json:"trips"`
	SavedRoutes []json.RawMessage `json:"savedRoutes"`
}

// Encode serializes a snapshot as the persisted document. Nil collections
// are written as empty arrays so the document shape stays stable.
func Encode(snap store.Snapshot) ([]byte, error) {
	out := struct {
		People      []domain.Person     `json:"people"`
		Vehicles    []domain.Vehicle    `json:"vehicles"`
		Trips       []domain.Trip       `json:"trips"`
		SavedRoutes []domain.SavedRoute `json:"savedRoutes"`
	}{
		People:      snap.People,
		Vehicles:    snap.Vehicles,
		Trips:       snap.Trips,
		SavedRoutes: snap.SavedRoutes,
	}
	if out.People == nil {
		out.People = []domain.Person{}
	}
	if out.Vehicles == nil {
		out.Vehicles = []domain.Vehicle{}
	}
	if out.Trips == nil {
		out.Trips = []domain.Trip{}
	}
	if out.SavedRoutes == nil {
		out.SavedRoutes = []domain.SavedRoute{}
	}
	return json.Marshal(out)
}

// Decode parses a persisted document into a snapshot, normalizing saved
// routes to the current schema.
func Decode(payload []byte) (store.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return store.Snapshot{}, err
	}
	snap := store.Snapshot{
		People:      doc.People,
		Vehicles:    doc.Vehicles,
		Trips:       doc.Trips,
		SavedRoutes: migrate.NormalizeSavedRoutes(doc.SavedRoutes),
	}
	if snap.People == nil {
		snap.People = []domain.Person{}
	}
	if snap.Vehicles == nil {
		snap.Vehicles = []domain.Vehicle{}
	}
	if snap.Trips == nil {
		snap.Trips = []domain.Trip{}
	}
	return snap, nil
}

// Load reads the slot and returns the snapshot to start from. An empty slot
// yields the seed snapshot silently; a read or decode failure is logged at
// warn and also yields the seed, so startup never fails on a bad document.
func Load(ctx context.Context, sl slot.Slot, logger *zap.Logger) store.Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}
	payload, err := sl.Read(ctx)
	if errors.Is(err, slot.ErrNotFound) {
		return store.Seed()
	}
	if err != nil {
		logger.Warn("read persisted state failed, starting from seed",
			zap.String("driver", string(sl.Driver())), zap.Error(err))
		return store.Seed()
	}
	snap, err := Decode(payload)
	if err != nil {
		logger.Warn("decode persisted state failed, starting from seed",
			zap.String("driver", string(sl.Driver())), zap.Error(err))
		return store.Seed()
	}
	return snap
}
