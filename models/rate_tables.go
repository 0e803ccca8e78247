package models

import (
	"time"

	"github.com/carrierx/settlement/rating-engine/utils"
)

// RateTable is a partner's versioned, time-bounded price list. The store
// returns every candidate valid at the event time; final selection (latest
// effective-from wins) belongs to the resolver.
type RateTable struct {
	ID            string         `gorm:"primaryKey;->"`
	PartnerCode   string         `gorm:"->"`
	Name          string         `gorm:"->"`
	Active        bool           `gorm:"->"`
	EffectiveFrom time.Time      `gorm:"->"`
	EffectiveTo   utils.NullTime `gorm:"->"`
	CreatedAt     time.Time      `gorm:"->"`
	UpdatedAt     time.Time      `gorm:"->"`
}

// Covers reports whether the table's validity window contains the instant.
// An absent effective-to means the table is open-ended.
func (rt *RateTable) Covers(at time.Time) bool {
	if !rt.Active || rt.EffectiveFrom.After(at) {
		return false
	}

	return !rt.EffectiveTo.Valid || !rt.EffectiveTo.Time.Before(at)
}

func (store *RateStore) FetchApplicableRateTables(partnerCode string, at time.Time) utils.Result[[]RateTable] {
	var tables []RateTable

	var conditions = `
		rate_tables.partner_code = ?
		AND rate_tables.active = TRUE
		AND rate_tables.effective_from <= ?
		AND (rate_tables.effective_to IS NULL OR rate_tables.effective_to >= ?)
	`
	result := store.db.Connection.
		Table("rate_tables").
		Where(conditions, partnerCode, at, at).
		Order("effective_from DESC").
		Find(&tables)

	if result.Error != nil {
		return utils.FailedResult[[]RateTable](result.Error)
	}

	return utils.SuccessResult(tables)
}
