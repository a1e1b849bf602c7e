/*
summary.go - Trip-level folding of day results

PURPOSE:
  Folds all computed days into the money summary: total per-diem base,
  total paid, pocket money, grand total - all in CZK. Also totals the
  trip's expense bills per currency, converted via the trip's bank rates.

POCKET MONEY:
  Computed as a percentage of the PRE-reduction per-diem base (meals lower
  the paid amount, not the pocket-money basis). The percentage comes from
  the rate configuration, default 40.

SEE ALSO:
  - engine.go: Produces the DayResults folded here
  - factory/itinerary.go: Parses the bills carried on the itinerary
*/
package perdiem

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/profisolv/trip-engine/trip"
)

// =============================================================================
// REPORT - The complete per-diem output for one trip
// =============================================================================

// Report is the full per-diem computation result.
type Report struct {
	ReportID string       `json:"report_id,omitempty"`
	Employee string       `json:"employee,omitempty"`
	Days     []*DayResult `json:"days"`
	Summary  Summary      `json:"summary"`
}

// Summary holds the trip-level money totals, all in CZK.
type Summary struct {
	BaseTotalCZK       decimal.Decimal `json:"total_per_diem_base_czk"`
	PaidTotalCZK       decimal.Decimal `json:"total_per_diem_paid_czk"`
	PocketMoneyPercent decimal.Decimal `json:"pocket_money_percent"`
	PocketMoneyCZK     decimal.Decimal `json:"total_pocket_money_czk"`
	GrandTotalCZK      decimal.Decimal `json:"total_money_czk"`
	Bills              []BillTotal     `json:"bills,omitempty"`
}

// BillTotal is the expense-bill total for one currency.
type BillTotal struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	AmountCZK decimal.Decimal `json:"amount_czk"`
}

// =============================================================================
// TRIP COMPUTATION
// =============================================================================

// ComputeReport runs the whole pipeline for one itinerary: exchange-rate
// table from the trip's bank rates, day aggregation, per-day rule engine,
// and the summary fold. An itinerary without waypoints yields a report
// with no days and zero totals.
func ComputeReport(it *trip.Itinerary, cfg *RateConfiguration) (*Report, error) {
	rates, err := NewExchangeRateTable(it.BankRates.Currencies)
	if err != nil {
		return nil, err
	}

	days, err := trip.AggregateTrip(it)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(cfg, rates)
	report := &Report{
		ReportID: it.ReportID,
		Employee: it.Employee.Name,
		Days:     make([]*DayResult, 0, len(days)),
	}
	for _, day := range days {
		result, err := engine.ComputeDay(day)
		if err != nil {
			return nil, err
		}
		report.Days = append(report.Days, result)
	}

	summary, err := Summarize(report.Days, cfg)
	if err != nil {
		return nil, err
	}
	summary.Bills, err = totalBills(it.Bills, rates)
	if err != nil {
		return nil, err
	}
	report.Summary = summary
	return report, nil
}

// Summarize folds day results into the money totals.
func Summarize(days []*DayResult, cfg *RateConfiguration) (Summary, error) {
	base := decimal.Zero
	paid := decimal.Zero
	for _, day := range days {
		for _, entry := range day.Entries {
			if !entry.HasCurrency() {
				continue
			}
			base = base.Add(entry.BaseHome)
			paid = paid.Add(entry.AmountHome)
		}
	}

	pocket := base.Mul(cfg.PocketMoneyPercent).Div(decimal.NewFromInt(100)).Round(2)
	return Summary{
		BaseTotalCZK:       base.Round(2),
		PaidTotalCZK:       paid.Round(2),
		PocketMoneyPercent: cfg.PocketMoneyPercent,
		PocketMoneyCZK:     pocket,
		GrandTotalCZK:      paid.Add(pocket).Round(2),
	}, nil
}

// totalBills sums expense bills per currency and converts each total to CZK.
// A bill in a currency missing from the bank rates is fatal.
func totalBills(bills []trip.Bill, rates *ExchangeRateTable) ([]BillTotal, error) {
	if len(bills) == 0 {
		return nil, nil
	}

	byCurrency := make(map[string]decimal.Decimal)
	for _, b := range bills {
		code := normalizeCurrency(b.Currency)
		byCurrency[code] = byCurrency[code].Add(b.Amount)
	}

	codes := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	totals := make([]BillTotal, 0, len(codes))
	for _, code := range codes {
		fx, ok := rates.Rate(code)
		if !ok {
			return nil, &MissingExchangeRateError{Currency: code}
		}
		amount := byCurrency[code]
		totals = append(totals, BillTotal{
			Currency:  code,
			Amount:    amount.Round(2),
			AmountCZK: amount.Mul(fx).Round(2),
		})
	}
	return totals, nil
}
