package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierx/settlement/rating-engine/utils"
)

type RoundingPolicy string

const (
	RoundingUp      RoundingPolicy = "UP"
	RoundingDown    RoundingPolicy = "DOWN"
	RoundingNearest RoundingPolicy = "NEAREST"
	RoundingNone    RoundingPolicy = "NONE"
)

func (p RoundingPolicy) Known() bool {
	switch p {
	case RoundingUp, RoundingDown, RoundingNearest, RoundingNone:
		return true
	}

	return false
}

// PricingRule is one row of a rate table. Rules sharing service kind and
// direction are narrowed by destination prefix; a rule without a prefix is
// the fallback for the pair.
type PricingRule struct {
	ID                string              `gorm:"primaryKey;->"`
	RateTableID       string              `gorm:"->"`
	ServiceKind       ServiceKind         `gorm:"->"`
	Direction         Direction           `gorm:"->"`
	DestinationPrefix *string             `gorm:"->"`
	RatePerUnit       decimal.Decimal     `gorm:"->"`
	Currency          string              `gorm:"->"`
	MinimumCharge     decimal.NullDecimal `gorm:"->"`
	RoundingPolicy    RoundingPolicy      `gorm:"->"`
	CreatedAt         time.Time           `gorm:"->"`
	UpdatedAt         time.Time           `gorm:"->"`
}

func (r *PricingRule) Scoped() bool {
	return r.DestinationPrefix != nil && *r.DestinationPrefix != ""
}

func (r *PricingRule) Prefix() string {
	if r.DestinationPrefix == nil {
		return ""
	}

	return *r.DestinationPrefix
}

// FetchRules returns the pricing rules of a rate table matching the service
// kind and canonical direction, ordered by rule id so iteration order is
// deterministic. Direction matching accepts both ingestion and rate-sheet
// vocabularies.
func (store *RateStore) FetchRules(rateTableID string, kind ServiceKind, direction Direction) utils.Result[[]PricingRule] {
	var rules []PricingRule

	var conditions = `
		pricing_rules.rate_table_id = ?
		AND pricing_rules.service_kind = ?
		AND pricing_rules.direction IN ?
	`
	result := store.db.Connection.
		Table("pricing_rules").
		Where(conditions, rateTableID, kind, direction.Synonyms()).
		Order("id ASC").
		Find(&rules)

	if result.Error != nil {
		return utils.FailedResult[[]PricingRule](result.Error)
	}

	return utils.SuccessResult(rules)
}
