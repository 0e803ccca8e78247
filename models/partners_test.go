package models

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var fetchPartnerQuery = `SELECT \* FROM "partners" WHERE code = \$1`

func TestFetchPartner(t *testing.T) {
	t.Run("should return partner when found", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		now := time.Now()

		columns := []string{"id", "code", "name", "status", "created_at", "updated_at", "deleted_at"}
		rows := sqlmock.NewRows(columns).
			AddRow("pa123", "P042", "Transit Carrier East", "ACTIVE", now, now, nil)

		mock.ExpectQuery(fetchPartnerQuery).
			WillReturnRows(rows)

		result := store.FetchPartner("P042")

		assert.True(t, result.Success())

		partner := result.Value()
		assert.NotNil(t, partner)
		assert.Equal(t, "pa123", partner.ID)
		assert.Equal(t, "P042", partner.Code)
		assert.Equal(t, PartnerStatusActive, partner.Status)
		assert.True(t, partner.Chargeable())
	})

	t.Run("should return error when partner not found", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		mock.ExpectQuery(fetchPartnerQuery).
			WillReturnError(gorm.ErrRecordNotFound)

		result := store.FetchPartner("P042")

		assert.False(t, result.Success())
		assert.NotNil(t, result.Error())
		assert.Equal(t, gorm.ErrRecordNotFound, result.Error())
		assert.Nil(t, result.Value())
		assert.False(t, result.IsCapturable())
		assert.False(t, result.IsRetryable())
	})

	t.Run("should handle database connection error", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		dbError := errors.New("database connection failed")

		mock.ExpectQuery(fetchPartnerQuery).
			WillReturnError(dbError)

		result := store.FetchPartner("P042")

		assert.False(t, result.Success())
		assert.Equal(t, dbError, result.Error())
		assert.Nil(t, result.Value())
		assert.True(t, result.IsCapturable())
		assert.True(t, result.IsRetryable())
	})
}

func TestPartnerChargeable(t *testing.T) {
	tests := []struct {
		status     PartnerStatus
		chargeable bool
	}{
		{PartnerStatusActive, true},
		{PartnerStatusSuspended, false},
		{PartnerStatusTerminated, false},
	}

	for _, test := range tests {
		partner := Partner{Status: test.status}
		assert.Equal(t, test.chargeable, partner.Chargeable())
	}
}
