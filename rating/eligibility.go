package rating

import (
	"fmt"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

type EligibilityService struct {
	store RateRepository
}

func NewEligibilityService(store RateRepository) *EligibilityService {
	return &EligibilityService{
		store: store,
	}
}

// CheckPartner confirms the owning partner exists and is chargeable. It runs
// strictly after validation and strictly before rate resolution: an inactive
// partner must never trigger a rate lookup.
func (s *EligibilityService) CheckPartner(code string) utils.Result[*models.Partner] {
	partnerResult := s.store.FetchPartner(code)
	if partnerResult.Failure() {
		if partnerResult.IsRetryable() {
			return utils.FailedResult[*models.Partner](partnerResult.Error()).
				AddErrorDetails("fetch_partner", "Error fetching partner")
		}

		reason := fmt.Sprintf("partner not found: %s", code)
		return utils.FailedResult[*models.Partner](fmt.Errorf("%s", reason)).
			AddErrorDetails("partner_not_found", reason).
			NonRetryable().
			NonCapturable()
	}

	partner := partnerResult.Value()
	if !partner.Chargeable() {
		reason := fmt.Sprintf("partner %s is not ACTIVE (status: %s)", partner.Code, partner.Status)
		return utils.FailedResult[*models.Partner](fmt.Errorf("%s", reason)).
			AddErrorDetails("partner_not_active", reason).
			NonRetryable().
			NonCapturable()
	}

	return utils.SuccessResult(partner)
}
