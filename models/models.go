package models

import (
	"github.com/carrierx/settlement/rating-engine/config/database"
)

const ERROR_NOT_FOUND string = "record not found"

// RateStore is the read-only repository the rating engine queries for
// partners, rate tables and pricing rules. It is always injected, never
// accessed through a package-level singleton.
type RateStore struct {
	db *database.DB
}

func NewRateStore(db *database.DB) *RateStore {
	return &RateStore{
		db: db,
	}
}
