// Package store implements the application state store: the single source of
// truth for people, vehicles, trips, and saved routes. Mutations follow an
// immutable-update discipline: every successful operation builds a fresh
// snapshot from cloned collections and swaps it in atomically, so a reader
// holding an earlier snapshot keeps a consistent view. Cascading deletes are
// applied inside the same snapshot swap.
package store

import (
	"sync"

	"github.com/google/uuid"

	"rimborsikm/pkg/domain"
)

// WatchFunc observes every published state transition. It receives a private
// clone of the new snapshot together with the change that produced it.
type WatchFunc func(Snapshot, domain.Change)

// Store owns the normalized entity collections.
type Store struct {
	mu       sync.RWMutex
	state    Snapshot
	newID    func() string
	watchers []WatchFunc
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides entity id generation. Intended for tests that need
// deterministic ids.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs a store owning a private clone of the initial snapshot.
func New(initial Snapshot, opts ...Option) *Store {
	s := &Store{
		state: initial.Clone(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch registers fn to be called after every published mutation. Watchers
// run outside the store lock, in registration order.
func (s *Store) Watch(fn WatchFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// ExportState clones the current snapshot for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// mutate runs fn against the current snapshot under the write lock. When fn
// reports ok, the snapshot it returns is published and watchers are notified
// outside the lock. Misses never reach publication: an operation that
// changed nothing publishes nothing.
func (s *Store) mutate(fn func(cur Snapshot) (Snapshot, domain.Change, bool)) {
	s.mu.Lock()
	next, change, ok := fn(s.state)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	watchers := append([]WatchFunc(nil), s.watchers...)
	s.mu.Unlock()
	for _, w := range watchers {
		w(next.Clone(), change)
	}
}

// AddPerson assigns a fresh id and appends the person.
func (s *Store) AddPerson(p domain.Person) domain.Person {
	p.ID = s.newID()
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		next := cur
		next.People = append(clonePeople(cur.People), p)
		return next, domain.Change{Entity: domain.EntityPerson, Action: domain.ActionCreate, After: p}, true
	})
	return p
}

// UpdatePerson replaces the person with a matching id. An unmatched id is a
// silent no-op: nothing is added, nothing changes.
func (s *Store) UpdatePerson(p domain.Person) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := personIndex(cur.People, p.ID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.People[idx]
		next := cur
		next.People = clonePeople(cur.People)
		next.People[idx] = p
		return next, domain.Change{Entity: domain.EntityPerson, Action: domain.ActionUpdate, Before: before, After: p}, true
	})
}

// DeletePerson removes the person and cascades: first the person's vehicles,
// then any trips recorded by the person. All removals land in one snapshot
// swap.
func (s *Store) DeletePerson(id string) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := personIndex(cur.People, id)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.People[idx]
		next := cur
		next.People = deleteAtPerson(cur.People, idx)
		next.Vehicles = filterVehicles(cur.Vehicles, func(v domain.Vehicle) bool { return v.PersonID != id })
		next.Trips = filterTrips(cur.Trips, func(t domain.Trip) bool { return t.PersonID != id })
		return next, domain.Change{Entity: domain.EntityPerson, Action: domain.ActionDelete, Before: before}, true
	})
}

// AddVehicle assigns a fresh id and appends the vehicle.
func (s *Store) AddVehicle(v domain.Vehicle) domain.Vehicle {
	v.ID = s.newID()
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		next := cur
		next.Vehicles = append(cloneVehicles(cur.Vehicles), v)
		return next, domain.Change{Entity: domain.EntityVehicle, Action: domain.ActionCreate, After: v}, true
	})
	return v
}

// UpdateVehicle replaces the vehicle with a matching id; unmatched ids are a
// no-op.
func (s *Store) UpdateVehicle(v domain.Vehicle) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := vehicleIndex(cur.Vehicles, v.ID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.Vehicles[idx]
		next := cur
		next.Vehicles = cloneVehicles(cur.Vehicles)
		next.Vehicles[idx] = v
		return next, domain.Change{Entity: domain.EntityVehicle, Action: domain.ActionUpdate, Before: before, After: v}, true
	})
}

// DeleteVehicle removes the vehicle and cascades to the trips that used it.
func (s *Store) DeleteVehicle(id string) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := vehicleIndex(cur.Vehicles, id)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.Vehicles[idx]
		next := cur
		next.Vehicles = filterVehicles(cur.Vehicles, func(v domain.Vehicle) bool { return v.ID != id })
		next.Trips = filterTrips(cur.Trips, func(t domain.Trip) bool { return t.VehicleID != id })
		return next, domain.Change{Entity: domain.EntityVehicle, Action: domain.ActionDelete, Before: before}, true
	})
}

// AddTrip assigns a fresh id and appends the trip.
func (s *Store) AddTrip(t domain.Trip) domain.Trip {
	t.ID = s.newID()
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		next := cur
		next.Trips = append(cloneTrips(cur.Trips), t)
		return next, domain.Change{Entity: domain.EntityTrip, Action: domain.ActionCreate, After: t}, true
	})
	return t
}

// UpdateTrip replaces the trip with a matching id; unmatched ids are a no-op.
func (s *Store) UpdateTrip(t domain.Trip) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := tripIndex(cur.Trips, t.ID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.Trips[idx]
		next := cur
		next.Trips = cloneTrips(cur.Trips)
		next.Trips[idx] = t
		return next, domain.Change{Entity: domain.EntityTrip, Action: domain.ActionUpdate, Before: before, After: t}, true
	})
}

// DeleteTrip removes the trip. No cascade.
func (s *Store) DeleteTrip(id string) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := tripIndex(cur.Trips, id)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.Trips[idx]
		next := cur
		next.Trips = filterTrips(cur.Trips, func(t domain.Trip) bool { return t.ID != id })
		return next, domain.Change{Entity: domain.EntityTrip, Action: domain.ActionDelete, Before: before}, true
	})
}

// AddSavedRoute assigns a fresh id and appends the route. Nested distance
// options keep any ids they carry; empty ones are assigned.
func (s *Store) AddSavedRoute(r domain.SavedRoute) domain.SavedRoute {
	r = cloneRoute(r)
	r.ID = s.newID()
	for i := range r.Distances {
		if r.Distances[i].ID == "" {
			r.Distances[i].ID = s.newID()
		}
	}
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		next := cur
		next.SavedRoutes = append(cloneRoutes(cur.SavedRoutes), cloneRoute(r))
		return next, domain.Change{Entity: domain.EntitySavedRoute, Action: domain.ActionCreate, After: cloneRoute(r)}, true
	})
	return r
}

// UpdateSavedRoute replaces the route with a matching id; unmatched ids are
// a no-op.
func (s *Store) UpdateSavedRoute(r domain.SavedRoute) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := routeIndex(cur.SavedRoutes, r.ID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.SavedRoutes[idx]
		next := cur
		next.SavedRoutes = cloneRoutes(cur.SavedRoutes)
		next.SavedRoutes[idx] = cloneRoute(r)
		return next, domain.Change{Entity: domain.EntitySavedRoute, Action: domain.ActionUpdate, Before: before, After: cloneRoute(r)}, true
	})
}

// DeleteSavedRoute removes the route and, with it, all its nested distance
// options.
func (s *Store) DeleteSavedRoute(id string) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := routeIndex(cur.SavedRoutes, id)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.SavedRoutes[idx]
		next := cur
		routes := make([]domain.SavedRoute, 0, len(cur.SavedRoutes)-1)
		for _, r := range cur.SavedRoutes {
			if r.ID != id {
				routes = append(routes, cloneRoute(r))
			}
		}
		next.SavedRoutes = routes
		return next, domain.Change{Entity: domain.EntitySavedRoute, Action: domain.ActionDelete, Before: before}, true
	})
}

// AddRouteDistance appends a labeled distance option to the named route,
// assigning it a fresh id. An unknown route id is a no-op (ok false).
func (s *Store) AddRouteDistance(routeID string, d domain.RouteDistance) (domain.RouteDistance, bool) {
	created := false
	d.ID = s.newID()
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := routeIndex(cur.SavedRoutes, routeID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		created = true
		next := cur
		next.SavedRoutes = cloneRoutes(cur.SavedRoutes)
		route := &next.SavedRoutes[idx]
		route.Distances = append(route.Distances, d)
		return next, domain.Change{Entity: domain.EntityRouteDistance, Action: domain.ActionCreate, After: d}, true
	})
	if !created {
		return domain.RouteDistance{}, false
	}
	return d, true
}

// UpdateRouteDistance replaces a distance option within the named route.
// Unknown route or distance ids are a no-op.
func (s *Store) UpdateRouteDistance(routeID string, d domain.RouteDistance) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := routeIndex(cur.SavedRoutes, routeID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		dIdx := distanceIndex(cur.SavedRoutes[idx].Distances, d.ID)
		if dIdx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.SavedRoutes[idx].Distances[dIdx]
		next := cur
		next.SavedRoutes = cloneRoutes(cur.SavedRoutes)
		next.SavedRoutes[idx].Distances[dIdx] = d
		return next, domain.Change{Entity: domain.EntityRouteDistance, Action: domain.ActionUpdate, Before: before, After: d}, true
	})
}

// DeleteRouteDistance removes a distance option from the named route.
// Unknown route or distance ids are a no-op.
func (s *Store) DeleteRouteDistance(routeID, distanceID string) {
	s.mutate(func(cur Snapshot) (Snapshot, domain.Change, bool) {
		idx := routeIndex(cur.SavedRoutes, routeID)
		if idx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		dIdx := distanceIndex(cur.SavedRoutes[idx].Distances, distanceID)
		if dIdx < 0 {
			return Snapshot{}, domain.Change{}, false
		}
		before := cur.SavedRoutes[idx].Distances[dIdx]
		next := cur
		next.SavedRoutes = cloneRoutes(cur.SavedRoutes)
		route := &next.SavedRoutes[idx]
		route.Distances = append(route.Distances[:dIdx:dIdx], route.Distances[dIdx+1:]...)
		return next, domain.Change{Entity: domain.EntityRouteDistance, Action: domain.ActionDelete, Before: before}, true
	})
}

// GetPerson retrieves a person by id.
func (s *Store) GetPerson(id string) (domain.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := personIndex(s.state.People, id); idx >= 0 {
		return s.state.People[idx], true
	}
	return domain.Person{}, false
}

// GetVehicle retrieves a vehicle by id.
func (s *Store) GetVehicle(id string) (domain.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := vehicleIndex(s.state.Vehicles, id); idx >= 0 {
		return s.state.Vehicles[idx], true
	}
	return domain.Vehicle{}, false
}

// GetVehiclesForPerson returns the person's vehicles in creation order.
func (s *Store) GetVehiclesForPerson(personID string) []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vehicle
	for _, v := range s.state.Vehicles {
		if v.PersonID == personID {
			out = append(out, v)
		}
	}
	return out
}

// GetTrip retrieves a trip by id.
func (s *Store) GetTrip(id string) (domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := tripIndex(s.state.Trips, id); idx >= 0 {
		return s.state.Trips[idx], true
	}
	return domain.Trip{}, false
}

// GetSavedRoute retrieves a saved route by id.
func (s *Store) GetSavedRoute(id string) (domain.SavedRoute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := routeIndex(s.state.SavedRoutes, id); idx >= 0 {
		return cloneRoute(s.state.SavedRoutes[idx]), true
	}
	return domain.SavedRoute{}, false
}

// GetRouteDistance retrieves one distance option of a saved route.
func (s *Store) GetRouteDistance(routeID, distanceID string) (domain.RouteDistance, bool) {
	route, ok := s.GetSavedRoute(routeID)
	if !ok {
		return domain.RouteDistance{}, false
	}
	return route.FindDistance(distanceID)
}

// People returns all people in creation order.
func (s *Store) People() []domain.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePeople(s.state.People)
}

// Vehicles returns all vehicles in creation order.
func (s *Store) Vehicles() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVehicles(s.state.Vehicles)
}

// Trips returns all trips in creation order.
func (s *Store) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTrips(s.state.Trips)
}

// SavedRoutes returns all saved routes in creation order.
func (s *Store) SavedRoutes() []domain.SavedRoute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRoutes(s.state.SavedRoutes)
}

func personIndex(people []domain.Person, id string) int {
	for i, p := range people {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func vehicleIndex(vehicles []domain.Vehicle, id string) int {
	for i, v := range vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func tripIndex(trips []domain.Trip, id string) int {
	for i, t := range trips {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func routeIndex(routes []domain.SavedRoute, id string) int {
	for i, r := range routes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func distanceIndex(distances []domain.RouteDistance, id string) int {
	for i, d := range distances {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func deleteAtPerson(people []domain.Person, idx int) []domain.Person {
	out := make([]domain.Person, 0, len(people)-1)
	out = append(out, people[:idx]...)
	return append(out, people[idx+1:]...)
}

func filterVehicles(in []domain.Vehicle, keep func(domain.Vehicle) bool) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func filterTrips(in []domain.Trip, keep func(domain.Trip) bool) []domain.Trip {
	out := make([]domain.Trip, 0, len(in))
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
