package store

import (
	"github.com/google/uuid"

	"rimborsikm/pkg/domain"
)

// Seed returns the fixed sample state installed when the persistence slot is
// empty or unreadable: the two school sites' staff, their cars, and the
// standard inter-site routes. Trip history always starts empty.
func Seed() Snapshot {
	return Snapshot{
		People: []domain.Person{
			{ID: "1", Name: "Marco", Surname: "Rossi", Role: domain.RoleTeacher, Email: "marco.rossi@itfv.it"},
			{ID: "2", Name: "Giulia", Surname: "Bianchi", Role: domain.RoleEmployee, Email: "giulia.bianchi@itfv.it"},
			{ID: "3", Name: "Alessandro", Surname: "Verdi", Role: domain.RoleAdministrator, Email: "alessandro.verdi@itfv.it"},
		},
		Vehicles: []domain.Vehicle{
			{ID: "1", PersonID: "1", Make: "Fiat", Model: "500", Plate: "AB123CD", ReimbursementRate: 0.35},
			{ID: "2", PersonID: "2", Make: "Renault", Model: "Clio", Plate: "EF456GH", ReimbursementRate: 0.38},
		},
		Trips: []domain.Trip{},
		SavedRoutes: []domain.SavedRoute{
			{
				ID:          "1",
				Name:        "Sede Treviso - Sede Vicenza",
				Origin:      "Via della Quercia 2/B, Treviso",
				Destination: "Via Pola 30, Torre di Quartesolo, Vicenza",
				Distances: []domain.RouteDistance{
					{ID: uuid.NewString(), Label: "Strada Normale", Distance: 65.2},
					{ID: uuid.NewString(), Label: "Autostrada", Distance: 58.7},
				},
			},
			{
				ID:          "2",
				Name:        "Sede Treviso - Sede Marcon",
				Origin:      "Via della Quercia 2/B, Treviso",
				Destination: "Viale della Stazione 3, Marcon",
				Distances: []domain.RouteDistance{
					{ID: uuid.NewString(), Label: "Strada Normale", Distance: 25.7},
					{ID: uuid.NewString(), Label: "Tangenziale", Distance: 23.4},
				},
			},
		},
	}
}
