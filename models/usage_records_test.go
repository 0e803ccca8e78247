package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalDirection(t *testing.T) {
	tests := []struct {
		raw       string
		canonical Direction
		known     bool
	}{
		{"INBOUND", DirectionInbound, true},
		{"INCOMING", DirectionInbound, true},
		{"OUTBOUND", DirectionOutbound, true},
		{"OUTGOING", DirectionOutbound, true},
		{"outgoing", DirectionOutbound, true},
		{" inbound ", DirectionInbound, true},
		{"SIDEWAYS", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		direction, ok := CanonicalDirection(test.raw)
		assert.Equal(t, test.known, ok, test.raw)
		assert.Equal(t, test.canonical, direction, test.raw)
	}
}

func TestDirectionUnmarshalJSON(t *testing.T) {
	t.Run("should fold ingestion vocabulary into the canonical value", func(t *testing.T) {
		var record UsageRecord
		err := json.Unmarshal([]byte(`{"direction": "OUTGOING"}`), &record)

		assert.NoError(t, err)
		assert.Equal(t, DirectionOutbound, record.Direction)
	})

	t.Run("should keep unknown vocabulary for validation to report", func(t *testing.T) {
		var record UsageRecord
		err := json.Unmarshal([]byte(`{"direction": "SIDEWAYS"}`), &record)

		assert.NoError(t, err)
		assert.Equal(t, Direction("SIDEWAYS"), record.Direction)
		assert.False(t, record.Direction.Known())
	})
}

func TestDirectionSynonyms(t *testing.T) {
	assert.Equal(t, []string{"INBOUND", "INCOMING"}, DirectionInbound.Synonyms())
	assert.Equal(t, []string{"OUTBOUND", "OUTGOING"}, DirectionOutbound.Synonyms())
}

func TestEventTime(t *testing.T) {
	t.Run("should parse integer epoch timestamps", func(t *testing.T) {
		record := UsageRecord{Timestamp: 1741007009}

		result := record.EventTime()
		assert.True(t, result.Success())
		assert.Equal(t, time.Unix(1741007009, 0).UTC(), result.Value())
	})

	t.Run("should parse string epoch timestamps with fractions", func(t *testing.T) {
		record := UsageRecord{Timestamp: "1741007009.123"}

		result := record.EventTime()
		assert.True(t, result.Success())
		assert.Equal(t, int64(1741007009123), result.Value().UnixMilli())
	})

	t.Run("should fail on unparseable timestamps", func(t *testing.T) {
		record := UsageRecord{Timestamp: "not-a-timestamp"}

		result := record.EventTime()
		assert.True(t, result.Failure())
	})
}

func TestMarkRated(t *testing.T) {
	record := UsageRecord{Status: RecordStatusResolved}

	amount := decimal.RequireFromString("1.8000")
	rate := decimal.RequireFromString("0.01")
	record.MarkRated(amount, "USD", rate)

	assert.Equal(t, RecordStatusRated, record.Status)
	assert.NotNil(t, record.Result)
	assert.True(t, record.Result.Rated())
	assert.True(t, record.Result.Amount.Equal(amount))
	assert.Equal(t, "USD", record.Result.Currency)
	assert.True(t, record.Result.RateApplied.Equal(rate))
	assert.Empty(t, record.Result.FailureReason)
}

func TestMarkFailed(t *testing.T) {
	record := UsageRecord{Status: RecordStatusValidating}

	record.MarkFailed("missing destination")

	assert.Equal(t, RecordStatusFailed, record.Status)
	assert.NotNil(t, record.Result)
	assert.False(t, record.Result.Rated())
	assert.Equal(t, "missing destination", record.Result.FailureReason)
	assert.Nil(t, record.Result.Amount)
	assert.Nil(t, record.Result.RateApplied)
}
