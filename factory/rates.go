/*
rates.go - Settings JSON to RateConfiguration

PURPOSE:
  Parses the injected rate settings document. Rates can be maintained by
  whoever keeps the books - no code change needed when the statutory
  tables move.

JSON SCHEMA:
  {
    "cz": {
      "per_diems_czk":              {"5_to_12": 140, "12_to_18": 212, "over_18": 333},
      "lowering_percents_per_meal": {"5_to_12": 70, "12_to_18": 35, "over_18": 25}
    },
    "foreign": {
      "per_diems":                  {"DE_EUR": 45, "AT_EUR": 45, "CH_CHF": 75},
      "per_diems_percents":         {"1_to_12": 33, "12_to_18": 66, "over_18": 100},
      "lowering_percents_per_meal": {"1_to_12": 70, "12_to_18": 35, "over_18": 25},
      "pocket_money_percent": 40
    },
    "selection_policy": "best_rate"
  }

KEY FEATURES:
  - Foreign rates use a composite "COUNTRY_currency" key; both halves are
    upper-cased on parse.
  - Unknown band keys are rejected (a typo in a band name must not
    silently drop a table row).
  - Defaults: pocket_money_percent 40, selection_policy best_rate.

SEE ALSO:
  - perdiem/config.go: The parsed configuration value
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/profisolv/trip-engine/perdiem"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type ratesJSON struct {
	CZ struct {
		PerDiems      map[string]decimal.Decimal `json:"per_diems_czk"`
		LoweringPerML map[string]decimal.Decimal `json:"lowering_percents_per_meal"`
	} `json:"cz"`
	Foreign struct {
		PerDiems           map[string]decimal.Decimal `json:"per_diems"`
		PerDiemsPercents   map[string]decimal.Decimal `json:"per_diems_percents"`
		LoweringPerML      map[string]decimal.Decimal `json:"lowering_percents_per_meal"`
		PocketMoneyPercent *decimal.Decimal           `json:"pocket_money_percent"`
	} `json:"foreign"`
	SelectionPolicy string `json:"selection_policy"`
}

var domesticBands = map[perdiem.Band]bool{
	perdiem.Band5To12:  true,
	perdiem.Band12To18: true,
	perdiem.BandOver18: true,
}

var foreignBands = map[perdiem.Band]bool{
	perdiem.Band1To12:  true,
	perdiem.Band12To18: true,
	perdiem.BandOver18: true,
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRateConfiguration decodes and validates a rate settings document.
func ParseRateConfiguration(data []byte) (*perdiem.RateConfiguration, error) {
	var doc ratesJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rate settings: %w", err)
	}

	cfg := &perdiem.RateConfiguration{
		ForeignRates:       make(map[string]perdiem.ForeignRate, len(doc.Foreign.PerDiems)),
		PocketMoneyPercent: decimal.NewFromInt(40),
		Selection:          perdiem.SelectBestRate,
	}

	var err error
	if cfg.DomesticRates, err = bandTable(doc.CZ.PerDiems, domesticBands, "cz.per_diems_czk"); err != nil {
		return nil, err
	}
	if cfg.DomesticMealReduction, err = bandTable(doc.CZ.LoweringPerML, domesticBands, "cz.lowering_percents_per_meal"); err != nil {
		return nil, err
	}
	if cfg.ForeignEntitlementPercent, err = bandTable(doc.Foreign.PerDiemsPercents, foreignBands, "foreign.per_diems_percents"); err != nil {
		return nil, err
	}
	if cfg.ForeignMealReduction, err = bandTable(doc.Foreign.LoweringPerML, foreignBands, "foreign.lowering_percents_per_meal"); err != nil {
		return nil, err
	}

	for key, daily := range doc.Foreign.PerDiems {
		rate, err := parseForeignRateKey(key)
		if err != nil {
			return nil, err
		}
		rate.Daily = daily
		cfg.ForeignRates[rate.Country] = rate
	}

	if doc.Foreign.PocketMoneyPercent != nil {
		cfg.PocketMoneyPercent = *doc.Foreign.PocketMoneyPercent
	}

	if doc.SelectionPolicy != "" {
		switch policy := perdiem.SelectionPolicy(doc.SelectionPolicy); policy {
		case perdiem.SelectDominantTime, perdiem.SelectBestRate:
			cfg.Selection = policy
		default:
			return nil, fmt.Errorf("unknown selection_policy %q", doc.SelectionPolicy)
		}
	}

	return cfg, nil
}

// bandTable converts a raw band->value map, rejecting unknown band names.
func bandTable(raw map[string]decimal.Decimal, known map[perdiem.Band]bool, where string) (map[perdiem.Band]decimal.Decimal, error) {
	table := make(map[perdiem.Band]decimal.Decimal, len(raw))
	for key, value := range raw {
		band := perdiem.Band(key)
		if !known[band] {
			return nil, fmt.Errorf("%s: unknown band %q", where, key)
		}
		table[band] = value
	}
	return table, nil
}

// parseForeignRateKey splits a composite "COUNTRY_currency" key.
func parseForeignRateKey(key string) (perdiem.ForeignRate, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || parts[1] == "" {
		return perdiem.ForeignRate{}, fmt.Errorf("foreign.per_diems: key %q is not COUNTRY_currency", key)
	}
	return perdiem.ForeignRate{
		Country:  strings.ToUpper(parts[0]),
		Currency: strings.ToUpper(parts[1]),
	}, nil
}
