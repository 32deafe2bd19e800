// Package core exposes the application service: the single object callers
// construct to get a loaded state store wired to debounced persistence,
// report generation, and operation metrics.
package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rimborsikm/internal/persist"
	"rimborsikm/internal/slot"
	"rimborsikm/internal/store"
	"rimborsikm/pkg/domain"
)

// Service owns the store, the slot, and the debounced saver. Every mutation
// flows through the store's watch hook into the saver, so callers never
// persist explicitly.
type Service struct {
	store   *store.Store
	slot    slot.Slot
	saver   *persist.Saver
	logger  *zap.Logger
	metrics MetricsRecorder
}

type options struct {
	slot     slot.Slot
	logger   *zap.Logger
	metrics  MetricsRecorder
	debounce time.Duration
	idFunc   func() string
}

// Option configures service construction.
type Option func(*options)

// WithSlot supplies an already-open slot instead of the env-selected one.
func WithSlot(sl slot.Slot) Option {
	return func(o *options) { o.slot = sl }
}

// WithLogger supplies the service logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder supplies an operation metrics sink.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(o *options) {
		if rec != nil {
			o.metrics = rec
		}
	}
}

// WithDebounce overrides the save quiet window. Intended for tests.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithIDFunc overrides entity id generation. Intended for tests.
func WithIDFunc(fn func() string) Option {
	return func(o *options) { o.idFunc = fn }
}

// New opens (or accepts) a slot, loads the persisted document, and wires
// the store to the debounced saver.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	cfg := options{logger: zap.NewNop(), metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	sl := cfg.slot
	if sl == nil {
		opened, err := slot.Open(ctx)
		if err != nil {
			return nil, err
		}
		sl = opened
	}

	snap := persist.Load(ctx, sl, cfg.logger)
	var storeOpts []store.Option
	if cfg.idFunc != nil {
		storeOpts = append(storeOpts, store.WithIDFunc(cfg.idFunc))
	}
	st := store.New(snap, storeOpts...)
	saver := persist.NewSaver(sl, cfg.logger, cfg.debounce)
	st.Watch(func(snap store.Snapshot, _ domain.Change) {
		saver.Schedule(snap)
	})

	return &Service{
		store:   st,
		slot:    sl,
		saver:   saver,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// Close flushes any pending save. Call it before process exit.
func (s *Service) Close(ctx context.Context) error {
	return s.saver.Flush(ctx)
}

// Store returns the underlying state store.
func (s *Service) Store() *store.Store { return s.store }

// ExportState clones the current application state.
func (s *Service) ExportState() store.Snapshot { return s.store.ExportState() }

func (s *Service) observe(ctx context.Context, op string, success bool, started time.Time) {
	s.metrics.Observe(ctx, op, success, time.Since(started))
}

// AddPerson stores a new person under a generated id.
func (s *Service) AddPerson(ctx context.Context, p domain.Person) domain.Person {
	defer s.observe(ctx, "add_person", true, time.Now())
	return s.store.AddPerson(p)
}

// UpdatePerson replaces a person record; unknown ids are ignored.
func (s *Service) UpdatePerson(ctx context.Context, p domain.Person) {
	defer s.observe(ctx, "update_person", true, time.Now())
	s.store.UpdatePerson(p)
}

// DeletePerson removes a person and, with them, their vehicles and trips.
func (s *Service) DeletePerson(ctx context.Context, id string) {
	defer s.observe(ctx, "delete_person", true, time.Now())
	s.store.DeletePerson(id)
}

// AddVehicle stores a new vehicle under a generated id.
func (s *Service) AddVehicle(ctx context.Context, v domain.Vehicle) domain.Vehicle {
	defer s.observe(ctx, "add_vehicle", true, time.Now())
	return s.store.AddVehicle(v)
}

// UpdateVehicle replaces a vehicle record; unknown ids are ignored.
func (s *Service) UpdateVehicle(ctx context.Context, v domain.Vehicle) {
	defer s.observe(ctx, "update_vehicle", true, time.Now())
	s.store.UpdateVehicle(v)
}

// DeleteVehicle removes a vehicle and the trips recorded with it.
func (s *Service) DeleteVehicle(ctx context.Context, id string) {
	defer s.observe(ctx, "delete_vehicle", true, time.Now())
	s.store.DeleteVehicle(id)
}

// AddTrip stores a new trip under a generated id.
func (s *Service) AddTrip(ctx context.Context, t domain.Trip) domain.Trip {
	defer s.observe(ctx, "add_trip", true, time.Now())
	return s.store.AddTrip(t)
}

// UpdateTrip replaces a trip record; unknown ids are ignored.
func (s *Service) UpdateTrip(ctx context.Context, t domain.Trip) {
	defer s.observe(ctx, "update_trip", true, time.Now())
	s.store.UpdateTrip(t)
}

// DeleteTrip removes a trip.
func (s *Service) DeleteTrip(ctx context.Context, id string) {
	defer s.observe(ctx, "delete_trip", true, time.Now())
	s.store.DeleteTrip(id)
}

// AddSavedRoute stores a new saved route under a generated id.
func (s *Service) AddSavedRoute(ctx context.Context, r domain.SavedRoute) domain.SavedRoute {
	defer s.observe(ctx, "add_saved_route", true, time.Now())
	return s.store.AddSavedRoute(r)
}

// UpdateSavedRoute replaces a saved route; unknown ids are ignored.
func (s *Service) UpdateSavedRoute(ctx context.Context, r domain.SavedRoute) {
	defer s.observe(ctx, "update_saved_route", true, time.Now())
	s.store.UpdateSavedRoute(r)
}

// DeleteSavedRoute removes a saved route and its distance options.
func (s *Service) DeleteSavedRoute(ctx context.Context, id string) {
	defer s.observe(ctx, "delete_saved_route", true, time.Now())
	s.store.DeleteSavedRoute(id)
}

// AddRouteDistance appends a distance option to a saved route.
func (s *Service) AddRouteDistance(ctx context.Context, routeID string, d domain.RouteDistance) (domain.RouteDistance, bool) {
	started := time.Now()
	created, ok := s.store.AddRouteDistance(routeID, d)
	s.observe(ctx, "add_route_distance", ok, started)
	return created, ok
}

// UpdateRouteDistance replaces a distance option within a saved route.
func (s *Service) UpdateRouteDistance(ctx context.Context, routeID string, d domain.RouteDistance) {
	defer s.observe(ctx, "update_route_distance", true, time.Now())
	s.store.UpdateRouteDistance(routeID, d)
}

// DeleteRouteDistance removes a distance option from a saved route.
func (s *Service) DeleteRouteDistance(ctx context.Context, routeID, distanceID string) {
	defer s.observe(ctx, "delete_route_distance", true, time.Now())
	s.store.DeleteRouteDistance(routeID, distanceID)
}

// GetPerson retrieves a person by id.
func (s *Service) GetPerson(id string) (domain.Person, bool) { return s.store.GetPerson(id) }

// GetVehicle retrieves a vehicle by id.
func (s *Service) GetVehicle(id string) (domain.Vehicle, bool) { return s.store.GetVehicle(id) }

// GetVehiclesForPerson lists a person's vehicles in creation order.
func (s *Service) GetVehiclesForPerson(personID string) []domain.Vehicle {
	return s.store.GetVehiclesForPerson(personID)
}

// GetTrip retrieves a trip by id.
func (s *Service) GetTrip(id string) (domain.Trip, bool) { return s.store.GetTrip(id) }

// GetSavedRoute retrieves a saved route by id.
func (s *Service) GetSavedRoute(id string) (domain.SavedRoute, bool) {
	return s.store.GetSavedRoute(id)
}

// GetRouteDistance retrieves one distance option of a saved route.
func (s *Service) GetRouteDistance(routeID, distanceID string) (domain.RouteDistance, bool) {
	return s.store.GetRouteDistance(routeID, distanceID)
}

// People lists all people in creation order.
func (s *Service) People() []domain.Person { return s.store.People() }

// Vehicles lists all vehicles in creation order.
func (s *Service) Vehicles() []domain.Vehicle { return s.store.Vehicles() }

// Trips lists all trips in creation order.
func (s *Service) Trips() []domain.Trip { return s.store.Trips() }

// SavedRoutes lists all saved routes in creation order.
func (s *Service) SavedRoutes() []domain.SavedRoute { return s.store.SavedRoutes() }

// FormatDate renders an ISO-8601 date for display, e.g. "10 marzo 2024".
// Input that does not parse is returned unchanged.
func (s *Service) FormatDate(value string) string {
	d, err := domain.ParseDate(value)
	if err != nil {
		return value
	}
	return d.FormatItalian()
}
