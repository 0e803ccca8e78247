package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/carrierx/settlement/rating-engine/utils"
)

type PartnerStatus string

const (
	PartnerStatusActive     PartnerStatus = "ACTIVE"
	PartnerStatusSuspended  PartnerStatus = "SUSPENDED"
	PartnerStatusTerminated PartnerStatus = "TERMINATED"
)

// Partner is an interconnect/roaming counterparty. Only ACTIVE partners are
// chargeable; rating must never reach a rate lookup for any other state.
type Partner struct {
	ID        string         `gorm:"primaryKey;->"`
	Code      string         `gorm:"->"`
	Name      string         `gorm:"->"`
	Status    PartnerStatus  `gorm:"->"`
	CreatedAt time.Time      `gorm:"->"`
	UpdatedAt time.Time      `gorm:"->"`
	DeletedAt gorm.DeletedAt `gorm:"index;->"`
}

func (p *Partner) Chargeable() bool {
	return p.Status == PartnerStatusActive
}

func (store *RateStore) FetchPartner(code string) utils.Result[*Partner] {
	var partner Partner
	result := store.db.Connection.First(&partner, "code = ?", code)
	if result.Error != nil {
		return failedPartnerResult(result.Error)
	}

	return utils.SuccessResult(&partner)
}

func failedPartnerResult(err error) utils.Result[*Partner] {
	result := utils.FailedResult[*Partner](err)

	if err.Error() == ERROR_NOT_FOUND {
		result = result.NonCapturable().NonRetryable()
	}

	return result
}
