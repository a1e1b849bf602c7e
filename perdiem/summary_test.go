package perdiem_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/profisolv/trip-engine/perdiem"
	"github.com/profisolv/trip-engine/trip"
)

func testItinerary() *trip.Itinerary {
	return &trip.Itinerary{
		ReportID: "2026-007",
		Year:     2026,
		Employee: trip.Employee{Name: "Jana Novakova"},
		BankRates: trip.BankRates{Currencies: []trip.CurrencyRate{
			{Code: "CZK", Rate: czk("1")},
			{Code: "EUR", Rate: czk("25")},
		}},
		Waypoints: map[string][]trip.Waypoint{
			"0112": {
				{Time: "0000", Place: "Brno", Country: "CZ", Next: trip.TransitionDrive},
				{Time: "0800", Place: "Dresden", Country: "DE", Next: trip.TransitionDrive, KM: 450},
				{Time: "2000", Place: "Berlin", Country: "DE", Next: trip.TransitionMeeting, KM: 190, RDPercent: 50},
				{Time: "2200", Place: "Berlin", Country: "DE", Next: trip.TransitionEnd},
			},
			"0113": {
				{Time: "0800", Place: "Berlin", Country: "DE", Next: trip.TransitionDrive},
				{Time: "1800", Place: "Brno", Country: "CZ", Next: trip.TransitionEndTrip, KM: 640},
			},
		},
		Bills: []trip.Bill{
			{Type: "fuel", Currency: "EUR", Amount: czk("62.40")},
			{Type: "parking", Currency: "EUR", Amount: czk("7.60")},
			{Type: "vignette", Currency: "CZK", Amount: czk("350")},
		},
	}
}

// =============================================================================
// SUMMARIZE
// =============================================================================

func TestSummarize_PocketMoneyOnPreReductionBase(t *testing.T) {
	// GIVEN: One day with a meal-reduced domestic per diem
	// WHEN: Summarizing
	// THEN: Pocket money is a percentage of the base, not of the paid amount
	engine := testEngine(t)
	day, err := engine.ComputeDay(dayAgg(cs("CZ", 10, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := perdiem.Summarize([]*perdiem.DayResult{day}, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.BaseTotalCZK.Equal(czk("140")) {
		t.Errorf("expected base 140, got %v", summary.BaseTotalCZK)
	}
	if !summary.PaidTotalCZK.Equal(czk("42")) {
		t.Errorf("expected paid 42, got %v", summary.PaidTotalCZK)
	}
	// 40% of 140, not of 42
	if !summary.PocketMoneyCZK.Equal(czk("56")) {
		t.Errorf("expected pocket money 56, got %v", summary.PocketMoneyCZK)
	}
	if !summary.GrandTotalCZK.Equal(czk("98")) {
		t.Errorf("expected grand total 98, got %v", summary.GrandTotalCZK)
	}
}

func TestSummarize_PlaceholdersExcluded(t *testing.T) {
	// GIVEN: A day whose foreign entry is blocked
	// WHEN: Summarizing
	// THEN: Only the domestic entry contributes money
	engine := testEngine(t)
	day, err := engine.ComputeDay(dayAgg(cs("CZ", 6, 0), cs("DE", 3, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := perdiem.Summarize([]*perdiem.DayResult{day}, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.BaseTotalCZK.Equal(czk("140")) {
		t.Errorf("expected base 140, got %v", summary.BaseTotalCZK)
	}
	if !summary.PaidTotalCZK.Equal(czk("140")) {
		t.Errorf("expected paid 140, got %v", summary.PaidTotalCZK)
	}
}

func TestSummarize_NoDays(t *testing.T) {
	summary, err := perdiem.Summarize(nil, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.GrandTotalCZK.IsZero() {
		t.Errorf("expected zero grand total, got %v", summary.GrandTotalCZK)
	}
}

// =============================================================================
// FULL TRIP COMPUTATION
// =============================================================================

func TestComputeReport_TwoDayTrip(t *testing.T) {
	// GIVEN: A two-day CZ->DE->CZ trip with fuel, parking, and vignette bills
	// WHEN: Computing the full report
	// THEN: Day 1: CZ 140 + DE 742.50; day 2: CZ 0 h (zero entry), DE
	//       371.25 (10 h -> 1_to_12, 45 x 33% x 25); bills per currency
	report, err := perdiem.ComputeReport(testItinerary(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ReportID != "2026-007" || report.Employee != "Jana Novakova" {
		t.Errorf("unexpected report header: %s / %s", report.ReportID, report.Employee)
	}
	if len(report.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(report.Days))
	}
	if report.Days[0].Key != "0112" || report.Days[1].Key != "0113" {
		t.Errorf("days out of order: %s, %s", report.Days[0].Key, report.Days[1].Key)
	}

	s := report.Summary
	// Base: 140 + 29.70x25 + 14.85x25 = 140 + 742.50 + 371.25 = 1253.75
	if !s.BaseTotalCZK.Equal(czk("1253.75")) {
		t.Errorf("expected base 1253.75, got %v", s.BaseTotalCZK)
	}
	if !s.PaidTotalCZK.Equal(czk("1253.75")) {
		t.Errorf("expected paid 1253.75, got %v", s.PaidTotalCZK)
	}
	if !s.PocketMoneyCZK.Equal(czk("501.50")) {
		t.Errorf("expected pocket money 501.50, got %v", s.PocketMoneyCZK)
	}
	if !s.GrandTotalCZK.Equal(czk("1755.25")) {
		t.Errorf("expected grand total 1755.25, got %v", s.GrandTotalCZK)
	}

	if len(s.Bills) != 2 {
		t.Fatalf("expected 2 bill totals, got %d", len(s.Bills))
	}
	if s.Bills[0].Currency != "CZK" || !s.Bills[0].AmountCZK.Equal(czk("350")) {
		t.Errorf("unexpected CZK bill total: %+v", s.Bills[0])
	}
	if s.Bills[1].Currency != "EUR" || !s.Bills[1].Amount.Equal(czk("70")) || !s.Bills[1].AmountCZK.Equal(czk("1750")) {
		t.Errorf("unexpected EUR bill total: %+v", s.Bills[1])
	}
}

func TestComputeReport_Deterministic(t *testing.T) {
	// GIVEN: The same itinerary and configuration
	// WHEN: Computing the report twice
	// THEN: The serialized outputs are byte-identical
	first, err := perdiem.ComputeReport(testItinerary(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := perdiem.ComputeReport(testItinerary(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical inputs produced different reports")
	}
}

func TestComputeReport_BillInUnknownCurrency(t *testing.T) {
	it := testItinerary()
	it.Bills = append(it.Bills, trip.Bill{Type: "lunch", Currency: "HUF", Amount: czk("4200")})

	_, err := perdiem.ComputeReport(it, testConfig())
	if !errors.Is(err, perdiem.ErrMissingExchangeRate) {
		t.Fatalf("expected ErrMissingExchangeRate, got %v", err)
	}
}

func TestComputeReport_EmptyItinerary(t *testing.T) {
	it := testItinerary()
	it.Waypoints = nil
	it.Bills = nil

	report, err := perdiem.ComputeReport(it, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Days) != 0 {
		t.Errorf("expected no days, got %d", len(report.Days))
	}
	if !report.Summary.GrandTotalCZK.IsZero() {
		t.Errorf("expected zero total, got %v", report.Summary.GrandTotalCZK)
	}
}
