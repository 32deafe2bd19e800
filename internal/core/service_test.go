package core

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"rimborsikm/internal/persist"
	"rimborsikm/internal/slot"
	"rimborsikm/pkg/domain"
)

func newTestService(t *testing.T, sl slot.Slot, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithSlot(sl), WithLogger(zap.NewNop()), WithDebounce(20 * time.Millisecond)}, opts...)
	svc, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustParseDate(t *testing.T, value string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func TestServiceStartsFromSeedOnEmptySlot(t *testing.T) {
	svc := newTestService(t, slot.NewMemory(slot.DefaultKey))
	if len(svc.People()) == 0 || len(svc.SavedRoutes()) == 0 {
		t.Fatalf("expected seeded state, got %d people %d routes",
			len(svc.People()), len(svc.SavedRoutes()))
	}
	if len(svc.Trips()) != 0 {
		t.Fatalf("seed should hold no trips, got %d", len(svc.Trips()))
	}
}

func TestServicePersistsMutationsDebounced(t *testing.T) {
	ctx := context.Background()
	sl := slot.NewMemory(slot.DefaultKey)
	svc := newTestService(t, sl)

	p := svc.AddPerson(ctx, domain.Person{Name: "Laura", Surname: "Conti", Role: domain.RoleEmployee})
	svc.AddVehicle(ctx, domain.Vehicle{PersonID: p.ID, Make: "Fiat", Model: "500", ReimbursementRate: 0.35})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && sl.Writes() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if sl.Writes() == 0 {
		t.Fatalf("debounced save never fired")
	}

	payload, err := sl.Read(ctx)
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	snap, err := persist.Decode(payload)
	if err != nil {
		t.Fatalf("decode persisted document: %v", err)
	}
	found := false
	for _, person := range snap.People {
		if person.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("persisted document missing added person: %+v", snap.People)
	}
}

func TestServiceCloseFlushesPendingSave(t *testing.T) {
	ctx := context.Background()
	sl := slot.NewMemory(slot.DefaultKey)
	svc := newTestService(t, sl, WithDebounce(time.Hour))

	svc.AddPerson(ctx, domain.Person{Name: "Franco"})
	if sl.Writes() != 0 {
		t.Fatalf("save fired before quiet window elapsed")
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if sl.Writes() != 1 {
		t.Fatalf("close did not flush pending save, writes=%d", sl.Writes())
	}
}

func TestServiceReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	sl := slot.NewMemory(slot.DefaultKey)

	svc := newTestService(t, sl, WithDebounce(time.Hour))
	p := svc.AddPerson(ctx, domain.Person{Name: "Irene", Surname: "Galli"})
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := newTestService(t, sl)
	got, ok := reopened.GetPerson(p.ID)
	if !ok || got.Surname != "Galli" {
		t.Fatalf("state lost across restart: %+v ok=%v", got, ok)
	}
}

func TestServiceCascadeFlowsThroughToPersistence(t *testing.T) {
	ctx := context.Background()
	sl := slot.NewMemory(slot.DefaultKey)
	svc := newTestService(t, sl, WithDebounce(time.Hour))

	p := svc.AddPerson(ctx, domain.Person{Name: "Dario"})
	v := svc.AddVehicle(ctx, domain.Vehicle{PersonID: p.ID, ReimbursementRate: 0.4})
	svc.AddTrip(ctx, domain.Trip{PersonID: p.ID, VehicleID: v.ID, Distance: 12})
	svc.DeletePerson(ctx, p.ID)
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	payload, _ := sl.Read(ctx)
	snap, err := persist.Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, vv := range snap.Vehicles {
		if vv.PersonID == p.ID {
			t.Fatalf("cascade not persisted: vehicle %q survives", vv.ID)
		}
	}
	for _, tt := range snap.Trips {
		if tt.PersonID == p.ID {
			t.Fatalf("cascade not persisted: trip %q survives", tt.ID)
		}
	}
}

func TestServiceMigratesLegacyRoutesOnLoad(t *testing.T) {
	ctx := context.Background()
	sl := slot.NewMemory(slot.DefaultKey)
	legacy := []byte(`{
		"people":[],"vehicles":[],"trips":[],
		"savedRoutes":[{"id":"r1","name":"Sede - Porto","origin":"Genova","destination":"Savona","distance":45}]
	}`)
	if err := sl.Write(ctx, legacy); err != nil {
		t.Fatalf("write legacy document: %v", err)
	}

	svc := newTestService(t, sl)
	route, ok := svc.GetSavedRoute("r1")
	if !ok {
		t.Fatalf("legacy route missing after load")
	}
	if len(route.Distances) != 1 || route.Distances[0].Label != "Percorso Standard" || route.Distances[0].Distance != 45 {
		t.Fatalf("legacy route not normalized: %+v", route.Distances)
	}
}

func TestFormatDate(t *testing.T) {
	svc := newTestService(t, slot.NewMemory(slot.DefaultKey))
	if got := svc.FormatDate("2024-03-10"); got != "10 marzo 2024" {
		t.Fatalf("FormatDate: got %q", got)
	}
	if got := svc.FormatDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("expected bad input unchanged, got %q", got)
	}
}
