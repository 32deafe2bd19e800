// Package domain defines the core persistent entities and value types used
// by rimborsikm: people, their vehicles, recorded trips, reusable saved
// routes, and the derived monthly reimbursement report.
package domain

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and the
// persisted state document.
const (
	// EntityPerson identifies a person record.
	EntityPerson EntityType = "person"
	// EntityVehicle identifies a vehicle record.
	EntityVehicle EntityType = "vehicle"
	// EntityTrip identifies a trip record.
	EntityTrip EntityType = "trip"
	// EntitySavedRoute identifies a saved route record.
	EntitySavedRoute EntityType = "saved_route"
	// EntityRouteDistance identifies a distance option nested in a saved route.
	EntityRouteDistance EntityType = "route_distance"
)

// PersonRole is the closed role enumeration for people. The wire values are
// the Italian terms the persisted state document has always used.
type PersonRole string

// Canonical person roles.
const (
	// RoleTeacher marks teaching staff.
	RoleTeacher PersonRole = "docente"
	// RoleEmployee marks administrative or technical employees.
	RoleEmployee PersonRole = "dipendente"
	// RoleAdministrator marks school administrators.
	RoleAdministrator PersonRole = "amministratore"
)

// Person represents a member of staff who records reimbursable trips.
type Person struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Surname string     `json:"surname"`
	Role    PersonRole `json:"role"`
	Email   string     `json:"email"`
}

// Vehicle is a car registered to exactly one person. ReimbursementRate is
// the currency amount reimbursed per kilometre and is never negative.
type Vehicle struct {
	ID                string  `json:"id"`
	PersonID          string  `json:"personId"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	Plate             string  `json:"plate"`
	ReimbursementRate float64 `json:"reimbursementRate"`
}

// Trip records one journey on a calendar date. Distance is always the
// one-way distance in kilometres; a round trip doubles it at read time and
// is never stored doubled.
type Trip struct {
	ID          string  `json:"id"`
	PersonID    string  `json:"personId"`
	VehicleID   string  `json:"vehicleId"`
	Date        Date    `json:"date"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Distance    float64 `json:"distance"`
	IsRoundTrip bool    `json:"isRoundTrip"`
}

// EffectiveDistance returns the kilometres the trip actually covers,
// doubling the stored one-way distance for round trips.
func (t Trip) EffectiveDistance() float64 {
	if t.IsRoundTrip {
		return t.Distance * 2
	}
	return t.Distance
}

// RouteDistance is one labeled distance option of a saved route, e.g.
// "Autostrada" vs "Strada Normale". It exists only nested inside its route.
type RouteDistance struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// SavedRoute is a named origin/destination pair with an ordered list of
// distance options. Distances keep insertion order; display order is
// creation order.
type SavedRoute struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Distances   []RouteDistance `json:"distances"`
}

// FindDistance returns the distance option with the given id, if present.
func (r SavedRoute) FindDistance(id string) (RouteDistance, bool) {
	for _, d := range r.Distances {
		if d.ID == id {
			return d, true
		}
	}
	return RouteDistance{}, false
}

// MonthlyReport aggregates one person's trips for a calendar month. It is
// derived on demand and never persisted. Month is zero-based (January is 0),
// matching the persisted trip dates' original calendar convention.
type MonthlyReport struct {
	Month              int     `json:"month"`
	Year               int     `json:"year"`
	PersonID           string  `json:"personId"`
	Trips              []Trip  `json:"trips"`
	TotalDistance      float64 `json:"totalDistance"`
	TotalReimbursement float64 `json:"totalReimbursement"`
}

// Change describes a mutation applied to the store state.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the store's mutation operations.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
