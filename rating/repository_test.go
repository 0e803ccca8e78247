package rating

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// mockedRateRepository is an in-memory RateRepository mirroring the store
// contract: candidate filtering only for rate tables, deterministic rule
// order by id, not-found surfaced as a non-retryable failure.
type mockedRateRepository struct {
	Partners   []models.Partner
	RateTables []models.RateTable
	Rules      []models.PricingRule

	PartnerErr    error
	RateTablesErr error
	RulesErr      error

	PartnerCalls    int
	RateTablesCalls int
	RulesCalls      int
}

func (r *mockedRateRepository) FetchPartner(code string) utils.Result[*models.Partner] {
	r.PartnerCalls++

	if r.PartnerErr != nil {
		return utils.FailedResult[*models.Partner](r.PartnerErr)
	}

	for i := range r.Partners {
		if r.Partners[i].Code == code {
			return utils.SuccessResult(&r.Partners[i])
		}
	}

	return utils.FailedResult[*models.Partner](gorm.ErrRecordNotFound).
		NonRetryable().
		NonCapturable()
}

func (r *mockedRateRepository) FetchApplicableRateTables(partnerCode string, at time.Time) utils.Result[[]models.RateTable] {
	r.RateTablesCalls++

	if r.RateTablesErr != nil {
		return utils.FailedResult[[]models.RateTable](r.RateTablesErr)
	}

	tables := make([]models.RateTable, 0)
	for _, table := range r.RateTables {
		if table.PartnerCode == partnerCode && table.Covers(at) {
			tables = append(tables, table)
		}
	}

	return utils.SuccessResult(tables)
}

func (r *mockedRateRepository) FetchRules(rateTableID string, kind models.ServiceKind, direction models.Direction) utils.Result[[]models.PricingRule] {
	r.RulesCalls++

	if r.RulesErr != nil {
		return utils.FailedResult[[]models.PricingRule](r.RulesErr)
	}

	rules := make([]models.PricingRule, 0)
	for _, rule := range r.Rules {
		if rule.RateTableID == rateTableID && rule.ServiceKind == kind && rule.Direction == direction {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	return utils.SuccessResult(rules)
}
