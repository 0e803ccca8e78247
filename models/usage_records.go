package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierx/settlement/rating-engine/utils"
)

type ServiceKind string

const (
	ServiceKindVoice ServiceKind = "VOICE"
	ServiceKindSMS   ServiceKind = "SMS"
)

func SupportedKinds() []ServiceKind {
	return []ServiceKind{ServiceKindVoice, ServiceKindSMS}
}

func (k ServiceKind) Known() bool {
	return k == ServiceKindVoice || k == ServiceKindSMS
}

// Direction is the canonical traffic direction. Upstream ingestion emits
// INCOMING/OUTGOING while rate sheets are authored with INBOUND/OUTBOUND;
// both vocabularies are folded into the canonical value at the JSON and SQL
// boundaries so the resolver only ever sees one of them.
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

func CanonicalDirection(value string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "INBOUND", "INCOMING":
		return DirectionInbound, true
	case "OUTBOUND", "OUTGOING":
		return DirectionOutbound, true
	}

	return "", false
}

func (d Direction) Known() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Synonyms returns every vocabulary variant matching the canonical
// direction, for SQL IN clauses against rate sheets authored with either.
func (d Direction) Synonyms() []string {
	switch d {
	case DirectionInbound:
		return []string{"INBOUND", "INCOMING"}
	case DirectionOutbound:
		return []string{"OUTBOUND", "OUTGOING"}
	}

	return []string{string(d)}
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if canonical, ok := CanonicalDirection(raw); ok {
		*d = canonical
		return nil
	}

	// Unknown vocabulary is kept as-is so validation can report it.
	*d = Direction(raw)
	return nil
}

func (d *Direction) Scan(value interface{}) error {
	if value == nil {
		*d = ""
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil
	}

	if canonical, ok := CanonicalDirection(raw); ok {
		*d = canonical
	} else {
		*d = Direction(raw)
	}

	return nil
}

func (d Direction) Value() (driver.Value, error) {
	return string(d), nil
}

type RecordStatus string

const (
	RecordStatusReceived   RecordStatus = "RECEIVED"
	RecordStatusValidating RecordStatus = "VALIDATING"
	RecordStatusEligible   RecordStatus = "ELIGIBLE"
	RecordStatusResolved   RecordStatus = "RESOLVED"
	RecordStatusRated      RecordStatus = "RATED"
	RecordStatusFailed     RecordStatus = "FAILED"
)

// UsageRecord is one billable event (a CDR for VOICE, an EDR for SMS) as
// normalized by the ingestion pipeline. The engine annotates it in place
// with a RatingResult; after that the record is considered immutable.
type UsageRecord struct {
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	Kind            ServiceKind `json:"service_kind"`
	Direction       Direction   `json:"direction"`
	Timestamp       any         `json:"timestamp"`
	PartnerCode     string      `json:"partner_code"`
	DurationSeconds *int64      `json:"duration_seconds,omitempty"`
	EventCount      *int64      `json:"event_count,omitempty"`

	IngestedAt utils.CustomTime `json:"ingested_at"`

	Status RecordStatus  `json:"status,omitempty"`
	Result *RatingResult `json:"rating_result,omitempty"`

	// Time is the parsed event timestamp, populated during validation.
	Time time.Time `json:"-"`
}

// EventTime parses the ingestion-provided timestamp, which may arrive as a
// unix epoch in integer, float or string form.
func (r *UsageRecord) EventTime() utils.Result[time.Time] {
	return utils.ToTime(r.Timestamp)
}

func (r *UsageRecord) MarkStatus(status RecordStatus) {
	r.Status = status
}

func (r *UsageRecord) MarkRated(amount decimal.Decimal, currency string, rateApplied decimal.Decimal) {
	r.Status = RecordStatusRated
	r.Result = &RatingResult{
		Status:      RatingStatusRated,
		Amount:      &amount,
		Currency:    currency,
		RateApplied: &rateApplied,
	}
}

func (r *UsageRecord) MarkFailed(reason string) {
	r.Status = RecordStatusFailed
	r.Result = &RatingResult{
		Status:        RatingStatusFailed,
		FailureReason: reason,
	}
}

type RatingStatus string

const (
	RatingStatusRated  RatingStatus = "RATED"
	RatingStatusFailed RatingStatus = "FAILED"
)

// RatingResult is the terminal outcome attached to a usage record: either a
// charge with its currency and the per-unit rate actually applied, or a
// human-readable failure reason. Never both, never neither.
type RatingResult struct {
	Status        RatingStatus     `json:"status"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	RateApplied   *decimal.Decimal `json:"rate_applied,omitempty"`
	FailureReason string           `json:"failure_reason,omitempty"`
}

func (res *RatingResult) Rated() bool {
	return res.Status == RatingStatusRated
}

// FailedRecord is the dead-letter payload for records that could not be
// rated and will not succeed on retry.
type FailedRecord struct {
	ID                  string      `json:"id"`
	Record              UsageRecord `json:"record"`
	InitialErrorMessage string      `json:"initial_error_message"`
	ErrorMessage        string      `json:"error_message"`
	ErrorCode           string      `json:"error_code"`
	FailedAt            time.Time   `json:"failed_at"`
}
