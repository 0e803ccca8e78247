package rating

import (
	"time"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// RateRepository is the read-only store contract the engine depends on.
// models.RateStore is the production implementation; tests supply their own.
type RateRepository interface {
	FetchPartner(code string) utils.Result[*models.Partner]
	FetchApplicableRateTables(partnerCode string, at time.Time) utils.Result[[]models.RateTable]
	FetchRules(rateTableID string, kind models.ServiceKind, direction models.Direction) utils.Result[[]models.PricingRule]
}
