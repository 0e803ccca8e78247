package rating

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// Charge is the audited outcome of the charge calculation: the final amount,
// its currency and the per-unit rate that was actually applied.
type Charge struct {
	Amount      decimal.Decimal
	Currency    string
	RateApplied decimal.Decimal
}

// ComputeCharge converts a validated record's quantity into a monetary
// amount using the resolved rule. Pure function of (record, rule):
// VOICE duration is rounded to whole-minute increments per the rule's
// rounding policy and billed per second; SMS bills per event. The rule's
// minimum charge floors the computed amount, and the final amount carries at
// most 4 decimal places (half-up at the 4th).
func ComputeCharge(record *models.UsageRecord, rule *models.PricingRule) utils.Result[*Charge] {
	var quantity decimal.Decimal

	switch record.Kind {
	case models.ServiceKindVoice:
		if !rule.RoundingPolicy.Known() {
			reason := fmt.Sprintf("unknown rounding policy %q", rule.RoundingPolicy)
			return utils.FailedResult[*Charge](fmt.Errorf("%s", reason)).
				AddErrorDetails("unknown_rounding_policy", reason).
				NonRetryable().
				NonCapturable()
		}

		var duration int64
		if record.DurationSeconds != nil {
			duration = *record.DurationSeconds
		}
		quantity = decimal.NewFromInt(BillableSeconds(duration, rule.RoundingPolicy))

	case models.ServiceKindSMS:
		count := int64(1)
		if record.EventCount != nil {
			count = *record.EventCount
		}
		quantity = decimal.NewFromInt(count)

	default:
		reason := fmt.Sprintf("unknown service kind %q", record.Kind)
		return utils.FailedResult[*Charge](fmt.Errorf("%s", reason)).
			AddErrorDetails("validation_error", reason).
			NonRetryable().
			NonCapturable()
	}

	amount := quantity.Mul(rule.RatePerUnit)

	if rule.MinimumCharge.Valid && amount.LessThan(rule.MinimumCharge.Decimal) {
		amount = rule.MinimumCharge.Decimal
	}

	return utils.SuccessResult(&Charge{
		Amount:      amount.Round(4),
		Currency:    rule.Currency,
		RateApplied: rule.RatePerUnit,
	})
}

// BillableSeconds applies the rounding policy to a raw duration, producing
// the duration actually billed, expressed in seconds:
//
//	UP      next full minute, except exactly 0 stays 0
//	DOWN    preceding full minute
//	NEAREST closest minute, half rounds up
//	NONE    raw seconds unmodified
func BillableSeconds(duration int64, policy models.RoundingPolicy) int64 {
	switch policy {
	case models.RoundingUp:
		return ((duration + 59) / 60) * 60
	case models.RoundingDown:
		return (duration / 60) * 60
	case models.RoundingNearest:
		return ((duration + 30) / 60) * 60
	default:
		return duration
	}
}
