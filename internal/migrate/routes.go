// Package migrate normalizes persisted saved-route records into the current
// schema. Documents written by older releases stored a single numeric
// distance per route; the current schema stores a list of labeled distance
// options. Normalization is total (every record yields a valid route, never
// an error, never a drop) and idempotent (already-current records pass
// through unchanged).
package migrate

import (
	"encoding/json"

	"github.com/google/uuid"

	"rimborsikm/pkg/domain"
)

// StandardRouteLabel names the single distance option synthesized for
// legacy routes that carried one bare number.
const StandardRouteLabel = "Percorso Standard"

// NormalizeSavedRoutes converts persisted route records, in order, into
// current-schema routes. Every record is kept, whatever its shape.
func NormalizeSavedRoutes(records []json.RawMessage) []domain.SavedRoute {
	out := make([]domain.SavedRoute, 0, len(records))
	for _, rec := range records {
		out = append(out, normalizeRoute(rec))
	}
	return out
}

// normalizeRoute applies the ordered shape rules to one record:
//
//  1. a distances array is already current and passes through;
//  2. a legacy numeric distance becomes one synthesized option labeled
//     StandardRouteLabel with a fresh id;
//  3. anything else keeps the route with no distance options.
//
// Fields are decoded individually so one malformed field (a string
// distance, a numeric name) never discards the record; whatever does not
// parse is simply absent for rule matching.
func normalizeRoute(rec json.RawMessage) domain.SavedRoute {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return domain.SavedRoute{Distances: []domain.RouteDistance{}}
	}
	route := domain.SavedRoute{
		ID:          stringField(fields, "id"),
		Name:        stringField(fields, "name"),
		Origin:      stringField(fields, "origin"),
		Destination: stringField(fields, "destination"),
	}
	if raw, ok := fields["distances"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err == nil && entries != nil {
			route.Distances = decodeDistances(entries)
			return route
		}
	}
	if raw, ok := fields["distance"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			route.Distances = []domain.RouteDistance{{
				ID:       uuid.NewString(),
				Label:    StandardRouteLabel,
				Distance: n,
			}}
			return route
		}
	}
	route.Distances = []domain.RouteDistance{}
	return route
}

// stringField decodes one string field; any other type reads as empty.
func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// decodeDistances keeps every well-formed entry of a current-schema list,
// assigning ids to entries that lack one.
func decodeDistances(entries []json.RawMessage) []domain.RouteDistance {
	out := make([]domain.RouteDistance, 0, len(entries))
	for _, entry := range entries {
		var d domain.RouteDistance
		if err := json.Unmarshal(entry, &d); err != nil {
			continue
		}
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		out = append(out, d)
	}
	return out
}
