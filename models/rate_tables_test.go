package models

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/carrierx/settlement/rating-engine/utils"
)

var fetchRateTablesQuery = `SELECT \* FROM "rate_tables" WHERE(.|\n)*rate_tables.partner_code = \$1`

func TestFetchApplicableRateTables(t *testing.T) {
	columns := []string{"id", "partner_code", "name", "active", "effective_from", "effective_to", "created_at", "updated_at"}

	t.Run("should return every candidate covering the instant", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		now := time.Now()
		at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(columns).
			AddRow("rt2", "P042", "2025 Q2 rates", true, at.AddDate(0, -2, 0), nil, now, now).
			AddRow("rt1", "P042", "2025 Q1 rates", true, at.AddDate(0, -5, 0), nil, now, now)

		mock.ExpectQuery(fetchRateTablesQuery).
			WillReturnRows(rows)

		result := store.FetchApplicableRateTables("P042", at)

		assert.True(t, result.Success())

		tables := result.Value()
		assert.Len(t, tables, 2)
		assert.Equal(t, "rt2", tables[0].ID)
		assert.Equal(t, "rt1", tables[1].ID)
	})

	t.Run("should return an empty slice when partner has no rate table", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		mock.ExpectQuery(fetchRateTablesQuery).
			WillReturnRows(sqlmock.NewRows(columns))

		result := store.FetchApplicableRateTables("P042", time.Now())

		assert.True(t, result.Success())
		assert.Empty(t, result.Value())
	})

	t.Run("should handle database connection error", func(t *testing.T) {
		store, mock, cleanup := setupRateStore(t)
		defer cleanup()

		dbError := errors.New("database connection failed")

		mock.ExpectQuery(fetchRateTablesQuery).
			WillReturnError(dbError)

		result := store.FetchApplicableRateTables("P042", time.Now())

		assert.False(t, result.Success())
		assert.Equal(t, dbError, result.Error())
		assert.True(t, result.IsCapturable())
		assert.True(t, result.IsRetryable())
	})
}

func TestRateTableCovers(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	bounded := RateTable{
		Active:        true,
		EffectiveFrom: from,
		EffectiveTo:   utils.NewNullTime(to),
	}
	openEnded := RateTable{
		Active:        true,
		EffectiveFrom: from,
	}
	inactive := RateTable{
		Active:        false,
		EffectiveFrom: from,
	}

	t.Run("should include both window boundaries", func(t *testing.T) {
		assert.True(t, bounded.Covers(from))
		assert.True(t, bounded.Covers(to))
		assert.True(t, bounded.Covers(from.AddDate(0, 3, 0)))
	})

	t.Run("should exclude instants outside the window", func(t *testing.T) {
		assert.False(t, bounded.Covers(from.Add(-time.Second)))
		assert.False(t, bounded.Covers(to.Add(time.Second)))
	})

	t.Run("should treat a missing effective to as open ended", func(t *testing.T) {
		assert.True(t, openEnded.Covers(from.AddDate(10, 0, 0)))
	})

	t.Run("should never cover when inactive", func(t *testing.T) {
		assert.False(t, inactive.Covers(from.AddDate(0, 1, 0)))
	})
}
