package store

import "rimborsikm/pkg/domain"

// Snapshot captures a point-in-time value of all entity collections. It is
// also the unit of persistence: the durable slot holds exactly this shape
// serialized as one JSON document.
type Snapshot struct {
	People      []domain.Person     `json:"people"`
	Vehicles    []domain.Vehicle    `json:"vehicles"`
	Trips       []domain.Trip       `json:"trips"`
	SavedRoutes []domain.SavedRoute `json:"savedRoutes"`
}

// Clone returns a deep copy sharing no mutable memory with the receiver.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		People:      clonePeople(s.People),
		Vehicles:    cloneVehicles(s.Vehicles),
		Trips:       cloneTrips(s.Trips),
		SavedRoutes: cloneRoutes(s.SavedRoutes),
	}
}

func clonePeople(in []domain.Person) []domain.Person {
	if in == nil {
		return nil
	}
	return append([]domain.Person(nil), in...)
}

func cloneVehicles(in []domain.Vehicle) []domain.Vehicle {
	if in == nil {
		return nil
	}
	return append([]domain.Vehicle(nil), in...)
}

func cloneTrips(in []domain.Trip) []domain.Trip {
	if in == nil {
		return nil
	}
	return append([]domain.Trip(nil), in...)
}

func cloneRoutes(in []domain.SavedRoute) []domain.SavedRoute {
	if in == nil {
		return nil
	}
	out := make([]domain.SavedRoute, len(in))
	for i, r := range in {
		out[i] = cloneRoute(r)
	}
	return out
}

func cloneRoute(r domain.SavedRoute) domain.SavedRoute {
	cp := r
	cp.Distances = append([]domain.RouteDistance(nil), r.Distances...)
	return cp
}
