/*
warnings.go - Typed, severity-tagged projection warnings

PURPOSE:
  The engine never throws for questionable business data; a projection must
  always produce a complete year-by-year series. Data-quality and realism
  concerns are encoded as Warning records attached to the year they occur.

WARNING TYPES:
  negative_balance:    Non-cash asset projected below zero (clamped to 0)
  negative_income:     Income series resolved to a negative amount
  negative_commitment: Commitment series resolved to a negative amount
  unrealistic_growth:  |growth - inflation| beyond the sanity threshold

SEVERITY:
  high:   The series was silently corrected (clamping)
  medium: The value passed through but looks wrong
  low:    Informational

Warnings are stateless and regenerated fresh on every computation; there is
no collector object, only the shared convention of tagging type and severity
so downstream reporting can group them.

SEE ALSO:
  - project.go: The projectors that emit warnings
  - snapshot.go: Per-year warning filtering
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type WarningType string

const (
	WarnNegativeBalance    WarningType = "negative_balance"
	WarnNegativeIncome     WarningType = "negative_income"
	WarnNegativeCommitment WarningType = "negative_commitment"
	WarnUnrealisticGrowth  WarningType = "unrealistic_growth"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning annotates one year of one item's projection.
type Warning struct {
	Year     int
	Type     WarningType
	Severity Severity
	Message  string
}

// UnrealisticRateThreshold is the fixed sanity bound on the effective rate
// (growth minus inflation), in percent. Rates beyond it are projected as
// given but flagged. Deliberately not configurable.
var UnrealisticRateThreshold = decimal.NewFromInt(50)

func negativeBalanceWarning(name string, year int) Warning {
	return Warning{
		Year:     year,
		Type:     WarnNegativeBalance,
		Severity: SeverityHigh,
		Message:  fmt.Sprintf("%s projected below zero in %d; value clamped to 0", name, year),
	}
}

func negativeAmountWarning(kind EntityKind, name string, year int) Warning {
	w := Warning{Year: year, Severity: SeverityMedium}
	switch kind {
	case KindIncome:
		w.Type = WarnNegativeIncome
		w.Message = fmt.Sprintf("income %s is negative in %d", name, year)
	default:
		w.Type = WarnNegativeCommitment
		w.Message = fmt.Sprintf("commitment %s is negative in %d", name, year)
	}
	return w
}

func unrealisticGrowthWarning(name string, year int, effective decimal.Decimal) Warning {
	return Warning{
		Year:     year,
		Type:     WarnUnrealisticGrowth,
		Severity: SeverityMedium,
		Message: fmt.Sprintf("%s has an effective rate of %s%% in %d, beyond ±%s%%",
			name, effective.StringFixed(1), year, UnrealisticRateThreshold.StringFixed(0)),
	}
}
