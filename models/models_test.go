package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/carrierx/settlement/rating-engine/tests"
)

func setupRateStore(t *testing.T) (*RateStore, sqlmock.Sqlmock, func()) {
	db, mock, delete := tests.SetupMockStore(t)

	store := &RateStore{
		db: db,
	}

	return store, mock, delete
}
