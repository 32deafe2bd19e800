package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

// The persisted state document predates this implementation; these tests pin
// the wire shape so older persisted blobs keep decoding.

func TestPersonJSONShape(t *testing.T) {
	p := Person{ID: "1", Name: "Marco", Surname: "Rossi", Role: RoleTeacher, Email: "marco.rossi@itfv.it"}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"id":      "1",
		"name":    "Marco",
		"surname": "Rossi",
		"role":    "docente",
		"email":   "marco.rossi@itfv.it",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("person wire shape drifted: %v", got)
	}
}

func TestVehicleJSONShape(t *testing.T) {
	v := Vehicle{ID: "2", PersonID: "1", Make: "Fiat", Model: "500", Plate: "AB123CD", ReimbursementRate: 0.35}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"personId"`, `"reimbursementRate"`, `"plate"`} {
		if !containsKey(data, key) {
			t.Fatalf("vehicle wire shape missing %s: %s", key, data)
		}
	}
}

func TestTripJSONShape(t *testing.T) {
	trip := Trip{
		ID:          "t1",
		PersonID:    "1",
		VehicleID:   "2",
		Date:        NewDate(2024, time.March, 10),
		Origin:      "Treviso",
		Destination: "Vicenza",
		Distance:    65.2,
		IsRoundTrip: true,
	}
	data, err := json.Marshal(trip)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"vehicleId"`, `"isRoundTrip"`, `"date":"2024-03-10"`} {
		if !containsKey(data, key) {
			t.Fatalf("trip wire shape missing %s: %s", key, data)
		}
	}
	var back Trip
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, trip) {
		t.Fatalf("trip round trip mismatch: %+v != %+v", back, trip)
	}
}

func TestTripEffectiveDistance(t *testing.T) {
	one := Trip{Distance: 10}
	if got := one.EffectiveDistance(); got != 10 {
		t.Fatalf("one-way = %v", got)
	}
	round := Trip{Distance: 10, IsRoundTrip: true}
	if got := round.EffectiveDistance(); got != 20 {
		t.Fatalf("round trip = %v", got)
	}
	if round.Distance != 10 {
		t.Fatalf("stored distance must stay one-way")
	}
}

func TestSavedRouteFindDistance(t *testing.T) {
	route := SavedRoute{
		ID:   "r1",
		Name: "Sede Treviso - Sede Vicenza",
		Distances: []RouteDistance{
			{ID: "d1", Label: "Strada Normale", Distance: 65.2},
			{ID: "d2", Label: "Autostrada", Distance: 58.7},
		},
	}
	d, ok := route.FindDistance("d2")
	if !ok || d.Label != "Autostrada" {
		t.Fatalf("FindDistance(d2) = %+v, %v", d, ok)
	}
	if _, ok := route.FindDistance("missing"); ok {
		t.Fatalf("expected absence for unknown id")
	}
}

func containsKey(data []byte, key string) bool {
	return json.Valid(data) && strings.Contains(string(data), key)
}
