package processors

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"

	tracer "github.com/carrierx/settlement/rating-engine/config"
	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/rating"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// RecordsProcessor consumes raw usage records and fans them out to the
// rating pipeline. Records are independent, so a batch is dispatched
// concurrently with no coordination beyond collecting commit offsets.
type RecordsProcessor struct {
	logger          *slog.Logger
	RatingService   *rating.Service
	ProducerService *RecordProducerService
	RefreshService  *rating.BillingRefreshService
}

func NewRecordsProcessor(logger *slog.Logger, ratingService *rating.Service, producerService *RecordProducerService, refreshService *rating.BillingRefreshService) *RecordsProcessor {
	return &RecordsProcessor{
		logger:          logger,
		RatingService:   ratingService,
		ProducerService: producerService,
		RefreshService:  refreshService,
	}
}

func (processor *RecordsProcessor) ProcessRecords(ctx context.Context, records []*kgo.Record) []*kgo.Record {
	span := tracer.GetTracerSpan(ctx, "rating", "Rating.ProcessRecords")
	recordsAttr := attribute.Int("records.length", len(records))
	span.SetAttributes(recordsAttr)
	defer span.End()

	wg := sync.WaitGroup{}
	wg.Add(len(records))

	var mu sync.Mutex
	processedRecords := make([]*kgo.Record, 0)

	for _, record := range records {
		go func(record *kgo.Record) {
			defer wg.Done()

			sp := tracer.GetTracerSpan(ctx, "rating", "Rating.ProcessOneRecord")
			defer sp.End()

			usage := models.UsageRecord{}
			err := json.Unmarshal(record.Value, &usage)
			if err != nil {
				processor.logger.Error("Error unmarshalling usage record", slog.String("error", err.Error()))
				utils.CaptureError(err)

				mu.Lock()
				// An unparseable record will fail forever, commit it
				processedRecords = append(processedRecords, record)
				mu.Unlock()
				return
			}
			usage.MarkStatus(models.RecordStatusReceived)

			result := processor.processRecord(ctx, &usage)
			if result.Failure() {
				processor.logger.Error(
					result.ErrorMessage(),
					slog.String("error_code", result.ErrorCode()),
					slog.String("error", result.ErrorMsg()),
				)

				if result.IsCapturable() {
					utils.CaptureErrorResultWithExtra(result, "record", usage)
				}

				ingestedAt := usage.IngestedAt.Time()
				if result.IsRetryable() && (ingestedAt.IsZero() || time.Since(ingestedAt) < 12*time.Hour) {
					// Repository errors are transient: leave the record
					// uncommitted so it is consumed and rated again. A
					// record without an ingestion time is treated as fresh.
					return
				}

				processor.ProducerService.ProduceToDeadLetterQueue(ctx, usage, result)
			}

			mu.Lock()
			processedRecords = append(processedRecords, record)
			mu.Unlock()
		}(record)
	}

	wg.Wait()

	return processedRecords
}

func (processor *RecordsProcessor) processRecord(ctx context.Context, usage *models.UsageRecord) utils.Result[*models.UsageRecord] {
	result := processor.RatingService.Rate(usage)
	if result.Failure() {
		return result
	}

	processor.ProducerService.ProduceRatedRecord(ctx, usage)

	flagResult := processor.RefreshService.FlagPartnerRefresh(usage)
	if flagResult.Failure() {
		return failedRecordResult(flagResult, "flag_billing_refresh", "Error flagging billing period refresh")
	}

	return result
}

func failedRecordResult(r utils.AnyResult, code string, message string) utils.Result[*models.UsageRecord] {
	result := utils.FailedResult[*models.UsageRecord](r.Error()).AddErrorDetails(code, message)
	result.Retryable = r.IsRetryable()
	result.Capture = r.IsCapturable()
	return result
}
