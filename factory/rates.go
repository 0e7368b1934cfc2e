/*
Package factory provides document to engine-configuration conversion.

PURPOSE:
  Converts JSON or YAML rate documents into commission.Config values and
  back. Commercial terms (rate table, party rates, cutoff day, investor
  delay) can change without code changes: operations edit a document, the
  server loads it at startup and injects the resulting immutable Config
  into the engine.

DOCUMENT SCHEMA (JSON shown, YAML uses the same keys):
  {
    "cutoff_day": 20,
    "investor_delay_days": 60,
    "day_count_basis": 30,
    "party_rates": {
      "advisor_internal": 3,
      "advisor_external": 2,
      "office": 1
    },
    "rates": [
      {"commitment_months": 12, "liquidity": "monthly", "rate": 2.1},
      {"commitment_months": 12, "liquidity": "annual",  "rate": 2.5}
    ]
  }

DEFAULTS:
  Omitted scalar fields fall back to the built-in commercial terms. An
  omitted "party_rates" uses the default party rates. "rates" is required.

USAGE:
  f := factory.NewConfigFactory()
  cfg, err := f.ParseFile("rates.yaml")
  engine, err := commission.NewEngine(cfg)

SEE ALSO:
  - commission/rates.go: RateTable and PartyRates
  - commission/schedule.go: Config validation
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/commission"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// ConfigJSON is the document representation of an engine config.
type ConfigJSON struct {
	CutoffDay         int             `json:"cutoff_day,omitempty"`
	InvestorDelayDays *int            `json:"investor_delay_days,omitempty"`
	DayCountBasis     int             `json:"day_count_basis,omitempty"`
	PartyRates        *PartyRatesJSON `json:"party_rates,omitempty"`
	Rates             []RateJSON      `json:"rates"`
}

// PartyRatesJSON holds the fixed monthly percents.
type PartyRatesJSON struct {
	AdvisorInternal decimal.Decimal `json:"advisor_internal"`
	AdvisorExternal decimal.Decimal `json:"advisor_external"`
	Office          decimal.Decimal `json:"office"`
}

// RateJSON is one Rate Table cell.
type RateJSON struct {
	CommitmentMonths int             `json:"commitment_months"`
	Liquidity        string          `json:"liquidity"`
	Rate             decimal.Decimal `json:"rate"`
}

// Format selects the document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts documents to commission.Config.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseFile reads a document, picking the format from the file extension
// (.yaml/.yml, anything else is JSON).
func (f *ConfigFactory) ParseFile(path string) (commission.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return commission.Config{}, fmt.Errorf("failed to read rate document: %w", err)
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return f.Parse(data, format)
}

// Parse decodes a document and converts it to a validated Config.
func (f *ConfigFactory) Parse(data []byte, format Format) (commission.Config, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return commission.Config{}, err
		}
		data = converted
	}

	var cj ConfigJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return commission.Config{}, fmt.Errorf("failed to parse rate document: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts ConfigJSON to commission.Config.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (commission.Config, error) {
	cfg := commission.DefaultConfig()
	if cj.CutoffDay != 0 {
		cfg.CutoffDay = cj.CutoffDay
	}
	if cj.InvestorDelayDays != nil {
		cfg.InvestorDelayDays = *cj.InvestorDelayDays
	}
	if cj.DayCountBasis != 0 {
		cfg.DayCountBasis = cj.DayCountBasis
	}
	if cj.PartyRates != nil {
		cfg.PartyRates = commission.PartyRates{
			AdvisorInternal: cj.PartyRates.AdvisorInternal,
			AdvisorExternal: cj.PartyRates.AdvisorExternal,
			Office:          cj.PartyRates.Office,
		}
	}

	if len(cj.Rates) == 0 {
		return commission.Config{}, fmt.Errorf("%w: rate document has no rates", commission.ErrInvalidConfig)
	}
	entries := make([]commission.RateEntry, 0, len(cj.Rates))
	for _, rj := range cj.Rates {
		class, err := parseLiquidityClass(rj.Liquidity)
		if err != nil {
			return commission.Config{}, err
		}
		entries = append(entries, commission.RateEntry{
			CommitmentMonths: rj.CommitmentMonths,
			Liquidity:        class,
			Rate:             rj.Rate,
		})
	}
	table, err := commission.NewRateTable(entries)
	if err != nil {
		return commission.Config{}, err
	}
	cfg.Rates = table

	if err := cfg.Validate(); err != nil {
		return commission.Config{}, err
	}
	return cfg, nil
}

// ToJSON converts a Config to its document representation.
func (f *ConfigFactory) ToJSON(cfg commission.Config) ConfigJSON {
	delay := cfg.InvestorDelayDays
	cj := ConfigJSON{
		CutoffDay:         cfg.CutoffDay,
		InvestorDelayDays: &delay,
		DayCountBasis:     cfg.DayCountBasis,
		PartyRates: &PartyRatesJSON{
			AdvisorInternal: cfg.PartyRates.AdvisorInternal,
			AdvisorExternal: cfg.PartyRates.AdvisorExternal,
			Office:          cfg.PartyRates.Office,
		},
	}
	for _, e := range cfg.Rates.Entries() {
		cj.Rates = append(cj.Rates, RateJSON{
			CommitmentMonths: e.CommitmentMonths,
			Liquidity:        string(e.Liquidity),
			Rate:             e.Rate,
		})
	}
	return cj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// parseLiquidityClass is strict: documents name classes exactly, unlike the
// free-text descriptors on investments.
func parseLiquidityClass(s string) (commission.LiquidityClass, error) {
	for _, c := range commission.LiquidityClasses {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown liquidity class %q", commission.ErrInvalidConfig, s)
}

// yamlToJSON re-encodes a YAML document as JSON so one set of struct tags
// (and decimal's JSON decoding) serves both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rate document: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert rate document: %w", err)
	}
	return out, nil
}
