package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/snowdej/finapp-sub000/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func intPtr(i int) *int {
	return &i
}

// assertAmount checks a decimal against an expected float within a rounding
// tolerance, since long compounding chains accumulate representation digits.
func assertAmount(t *testing.T, expected float64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	diff := got.Sub(dec(expected)).Abs()
	assert.True(t, diff.LessThan(dec(0.01)),
		"expected %v, got %s (%v)", expected, got.String(), msgAndArgs)
}

func baseAssumptions() engine.PlanAssumptions {
	return engine.PlanAssumptions{
		InflationRate:        dec(0),
		IncomeGrowthRate:     dec(0),
		CommitmentGrowthRate: dec(0),
		AssetGrowthRates:     map[string]decimal.Decimal{},
	}
}

func isaAsset(id string, value float64, growth float64) engine.Asset {
	return engine.Asset{
		ID:           engine.ItemID(id),
		Name:         id,
		Category:     "ISA",
		CurrentValue: dec(value),
		GrowthRate:   decPtr(growth),
	}
}

func monthlySalary(id string, amount float64, startYear int, endYear *int) engine.Income {
	return engine.Income{
		ID:        engine.ItemID(id),
		Name:      id,
		Amount:    dec(amount),
		Frequency: engine.FrequencyMonthly,
		StartYear: startYear,
		EndYear:   endYear,
	}
}

func monthlyRent(id string, amount float64, startYear int, endYear *int) engine.Commitment {
	return engine.Commitment{
		ID:        engine.ItemID(id),
		Name:      id,
		Amount:    dec(amount),
		Frequency: engine.FrequencyMonthly,
		StartYear: startYear,
		EndYear:   endYear,
	}
}

func warningsOfType(ws []engine.Warning, wt engine.WarningType) []engine.Warning {
	var out []engine.Warning
	for _, w := range ws {
		if w.Type == wt {
			out = append(out, w)
		}
	}
	return out
}
