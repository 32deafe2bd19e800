package core

import (
	"context"
	"time"

	"rimborsikm/pkg/domain"
)

// GenerateMonthlyReport aggregates one person's trips for a calendar month.
// The month argument is zero-based (0 = January), matching the persisted
// document's calendar convention. Round trips count double at read time.
// Trips whose vehicle no longer exists stay listed but contribute nothing
// to either total. Returns ok=false when the person is unknown or the month
// holds no trips, distinguishing "nothing to report" from a report totaling
// zero.
func (s *Service) GenerateMonthlyReport(ctx context.Context, personID string, month, year int) (domain.MonthlyReport, bool) {
	started := time.Now()
	report, ok := s.buildMonthlyReport(personID, month, year)
	s.observe(ctx, "generate_monthly_report", ok, started)
	return report, ok
}

func (s *Service) buildMonthlyReport(personID string, month, year int) (domain.MonthlyReport, bool) {
	if _, ok := s.store.GetPerson(personID); !ok {
		return domain.MonthlyReport{}, false
	}

	rates := map[string]float64{}
	for _, v := range s.store.Vehicles() {
		rates[v.ID] = v.ReimbursementRate
	}

	first, last := domain.MonthWindow(year, month)
	report := domain.MonthlyReport{Month: month, Year: year, PersonID: personID}
	for _, t := range s.store.Trips() {
		if t.PersonID != personID {
			continue
		}
		if t.Date.Before(first) || t.Date.After(last) {
			continue
		}
		report.Trips = append(report.Trips, t)
		if rate, ok := rates[t.VehicleID]; ok {
			distance := t.EffectiveDistance()
			report.TotalDistance += distance
			report.TotalReimbursement += distance * rate
		}
	}
	if len(report.Trips) == 0 {
		return domain.MonthlyReport{}, false
	}
	return report, true
}
