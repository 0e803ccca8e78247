package rating

import (
	"fmt"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// BillingRefreshService flags the partner billing period a freshly rated
// record falls into, so invoice aggregation re-sums that period.
type BillingRefreshService struct {
	flagStore models.Flagger
}

func NewBillingRefreshService(flagStore models.Flagger) *BillingRefreshService {
	return &BillingRefreshService{
		flagStore: flagStore,
	}
}

func (s *BillingRefreshService) FlagPartnerRefresh(record *models.UsageRecord) utils.Result[bool] {
	period := record.Time.UTC().Format("2006-01")

	err := s.flagStore.Flag(fmt.Sprintf("%s:%s", record.PartnerCode, period))
	if err != nil {
		return utils.FailedResult[bool](err)
	}

	return utils.SuccessResult(true)
}
