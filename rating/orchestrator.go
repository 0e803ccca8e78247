package rating

import (
	"log/slog"

	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

const (
	ServiceName    = "rating-engine"
	ServiceVersion = "1.4.0"
)

// Service sequences the rating pipeline per record: validation, partner
// eligibility, rate resolution, charge calculation. Stateless and
// record-scoped; the only shared resource is the injected repository.
type Service struct {
	logger      *slog.Logger
	eligibility *EligibilityService
	resolver    *RateResolverService
}

func NewService(logger *slog.Logger, store RateRepository) *Service {
	return &Service{
		logger:      logger.With("component", "rating"),
		eligibility: NewEligibilityService(store),
		resolver:    NewRateResolverService(store),
	}
}

// ServiceInfo is the liveness/capability probe payload.
type ServiceInfo struct {
	Name           string               `json:"name"`
	Version        string               `json:"version"`
	SupportedKinds []models.ServiceKind `json:"supported_kinds"`
}

func (s *Service) Probe() ServiceInfo {
	return ServiceInfo{
		Name:           ServiceName,
		Version:        ServiceVersion,
		SupportedKinds: models.SupportedKinds(),
	}
}

type BatchSummary struct {
	Processed int `json:"processed"`
	Rated     int `json:"rated"`
	Failed    int `json:"failed"`
}

// Rate runs one record through the pipeline and annotates it in place with
// its terminal result. Business failures (bad field, unknown partner,
// missing rate) mark the record FAILED and come back non-retryable;
// repository errors leave the record un-annotated and come back retryable so
// the caller can treat them as fatal for the whole call.
func (s *Service) Rate(record *models.UsageRecord) utils.Result[*models.UsageRecord] {
	record.MarkStatus(models.RecordStatusValidating)

	validation := ValidateRecord(record)
	if validation.Failure() {
		return s.failRecord(record, validation)
	}

	partnerResult := s.eligibility.CheckPartner(record.PartnerCode)
	if partnerResult.Failure() {
		return s.failRecord(record, partnerResult)
	}
	record.MarkStatus(models.RecordStatusEligible)

	tableResult := s.resolver.ResolveRateTable(record.PartnerCode, record.Time)
	if tableResult.Failure() {
		return s.failRecord(record, tableResult)
	}

	ruleResult := s.resolver.ResolveRule(tableResult.Value(), record)
	if ruleResult.Failure() {
		return s.failRecord(record, ruleResult)
	}
	record.MarkStatus(models.RecordStatusResolved)

	chargeResult := ComputeCharge(record, ruleResult.Value())
	if chargeResult.Failure() {
		return s.failRecord(record, chargeResult)
	}

	charge := chargeResult.Value()
	record.MarkRated(charge.Amount, charge.Currency, charge.RateApplied)

	return utils.SuccessResult(record)
}

// RateBatch rates every record independently, preserving input order. One
// record's failure never aborts the batch; only a repository/transport
// error does, and it surfaces as the batch result's own failure.
func (s *Service) RateBatch(records []*models.UsageRecord) utils.Result[*BatchSummary] {
	summary := &BatchSummary{}

	for _, record := range records {
		result := s.Rate(record)
		summary.Processed++

		if result.Success() {
			summary.Rated++
			continue
		}

		if result.IsRetryable() {
			return utils.FailedResult[*BatchSummary](result.Error()).
				AddErrorDetails(result.ErrorCode(), result.ErrorMessage())
		}

		summary.Failed++
	}

	return utils.SuccessResult(summary)
}

func (s *Service) failRecord(record *models.UsageRecord, r utils.AnyResult) utils.Result[*models.UsageRecord] {
	if !r.IsRetryable() {
		record.MarkFailed(r.ErrorMessage())

		s.logger.Error(r.ErrorMessage(),
			slog.String("error_code", r.ErrorCode()),
			slog.String("partner_code", record.PartnerCode),
		)
	}

	result := utils.FailedResult[*models.UsageRecord](r.Error()).
		AddErrorDetails(r.ErrorCode(), r.ErrorMessage())
	result.Retryable = r.IsRetryable()
	result.Capture = r.IsCapturable()
	return result
}
