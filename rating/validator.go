package rating

import (
	"fmt"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// ValidateRecord checks a usage record for completeness before any lookup
// happens. Checks run in a fixed order and the first failure wins; the
// returned reason names the offending field. On success the parsed event
// time is stashed on the record.
func ValidateRecord(record *models.UsageRecord) utils.Result[*models.UsageRecord] {
	if record.Origin == "" {
		return validationFailure("missing origin")
	}

	if record.Destination == "" {
		return validationFailure("missing destination")
	}

	if record.Kind == "" {
		return validationFailure("missing service kind")
	}

	if !record.Kind.Known() {
		return validationFailure(fmt.Sprintf("unknown service kind %q", record.Kind))
	}

	if record.Direction == "" {
		return validationFailure("missing direction")
	}

	if !record.Direction.Known() {
		return validationFailure(fmt.Sprintf("unknown direction %q", record.Direction))
	}

	if record.Timestamp == nil || record.Timestamp == "" {
		return validationFailure("missing timestamp")
	}

	timeResult := record.EventTime()
	if timeResult.Failure() {
		return validationFailure(fmt.Sprintf("invalid timestamp: %s", timeResult.ErrorMsg()))
	}
	record.Time = timeResult.Value()

	if record.PartnerCode == "" {
		return validationFailure("missing partner code")
	}

	switch record.Kind {
	case models.ServiceKindVoice:
		if record.DurationSeconds == nil {
			return validationFailure("missing duration for VOICE call")
		}
		if *record.DurationSeconds < 0 {
			return validationFailure("negative duration for VOICE call")
		}

	case models.ServiceKindSMS:
		if record.EventCount == nil {
			return validationFailure("missing event count for SMS")
		}
		if *record.EventCount < 1 {
			return validationFailure("event count below 1 for SMS")
		}
	}

	return utils.SuccessResult(record)
}

func validationFailure(reason string) utils.Result[*models.UsageRecord] {
	return utils.FailedResult[*models.UsageRecord](fmt.Errorf("%s", reason)).
		AddErrorDetails("validation_error", reason).
		NonRetryable().
		NonCapturable()
}
