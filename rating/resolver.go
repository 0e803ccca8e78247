package rating

import (
	"fmt"
	"strings"
	"time"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

type RateResolverService struct {
	store RateRepository
}

func NewRateResolverService(store RateRepository) *RateResolverService {
	return &RateResolverService{
		store: store,
	}
}

// ResolveRateTable selects the one rate table applicable for the partner at
// the event time. The store returns candidates whose validity window covers
// the instant; among several versions the latest effective-from wins.
func (s *RateResolverService) ResolveRateTable(partnerCode string, at time.Time) utils.Result[*models.RateTable] {
	tablesResult := s.store.FetchApplicableRateTables(partnerCode, at)
	if tablesResult.Failure() {
		return utils.FailedResult[*models.RateTable](tablesResult.Error()).
			AddErrorDetails("fetch_rate_tables", "Error fetching rate tables")
	}

	tables := tablesResult.Value()
	if len(tables) == 0 {
		reason := fmt.Sprintf("no active rate table for partner %s", partnerCode)
		return utils.FailedResult[*models.RateTable](fmt.Errorf("%s", reason)).
			AddErrorDetails("rate_table_not_found", reason).
			NonRetryable().
			NonCapturable()
	}

	selected := &tables[0]
	for i := range tables[1:] {
		candidate := &tables[i+1]
		if candidate.EffectiveFrom.After(selected.EffectiveFrom) {
			selected = candidate
		}
	}

	return utils.SuccessResult(selected)
}

// ResolveRule selects the single pricing rule for the record within the
// table, by longest-prefix-match on the destination. Prefix matching is
// literal string prefixing, never numeric ranges. When several rules tie on
// prefix length the lowest rule id wins, so resolution never depends on
// storage iteration order. Rules without a prefix act as a fallback when no
// prefixed rule matches.
func (s *RateResolverService) ResolveRule(table *models.RateTable, record *models.UsageRecord) utils.Result[*models.PricingRule] {
	rulesResult := s.store.FetchRules(table.ID, record.Kind, record.Direction)
	if rulesResult.Failure() {
		return utils.FailedResult[*models.PricingRule](rulesResult.Error()).
			AddErrorDetails("fetch_pricing_rules", "Error fetching pricing rules")
	}

	rules := rulesResult.Value()
	if len(rules) == 0 {
		return noRuleFailure(record)
	}

	var best *models.PricingRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Scoped() || !strings.HasPrefix(record.Destination, rule.Prefix()) {
			continue
		}

		if best == nil || betterPrefixMatch(rule, best) {
			best = rule
		}
	}

	if best != nil {
		return utils.SuccessResult(best)
	}

	// Deliberate fallback: the first unscoped rule of the kind+direction
	// set prices destinations no prefix covers.
	for i := range rules {
		if !rules[i].Scoped() {
			return utils.SuccessResult(&rules[i])
		}
	}

	return noRuleFailure(record)
}

func betterPrefixMatch(candidate, current *models.PricingRule) bool {
	if len(candidate.Prefix()) != len(current.Prefix()) {
		return len(candidate.Prefix()) > len(current.Prefix())
	}

	return candidate.ID < current.ID
}

func noRuleFailure(record *models.UsageRecord) utils.Result[*models.PricingRule] {
	reason := fmt.Sprintf("no rate found for %s %s to %s", record.Kind, record.Direction, record.Destination)
	return utils.FailedResult[*models.PricingRule](fmt.Errorf("%s", reason)).
		AddErrorDetails("rate_rule_not_found", reason).
		NonRetryable().
		NonCapturable()
}
