package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carrierx/settlement/rating-engine/config/kafka"
	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/utils"
)

// RecordProducerService pushes annotated records downstream: rated records
// to the billing aggregation topic, unratable records to the dead letter
// topic.
type RecordProducerService struct {
	ratedProducer      kafka.MessageProducer
	deadLetterProducer kafka.MessageProducer
	logger             *slog.Logger
}

func NewRecordProducerService(ratedProducer, deadLetterProducer kafka.MessageProducer, logger *slog.Logger) *RecordProducerService {
	return &RecordProducerService{
		ratedProducer:      ratedProducer,
		deadLetterProducer: deadLetterProducer,
		logger:             logger,
	}
}

func (rps *RecordProducerService) ProduceRatedRecord(ctx context.Context, record *models.UsageRecord) {
	recordJson, err := json.Marshal(record)
	if err != nil {
		rps.logger.Error("error while marshaling rated record")
		utils.CaptureError(err)
		return
	}

	// Key by partner and destination so one partner's traffic to a
	// destination stays on one partition for downstream aggregation.
	msgKey := fmt.Sprintf("%s-%s", record.PartnerCode, record.Destination)

	pushed := rps.ratedProducer.Produce(ctx, &kafka.ProducerMessage{
		Key:   []byte(msgKey),
		Value: recordJson,
	})

	if !pushed {
		rps.ProduceToDeadLetterQueue(ctx, *record, utils.FailedResult[bool](fmt.Errorf("Failed to push to %s topic", rps.ratedProducer.GetTopic())))
	}
}

func (rps *RecordProducerService) ProduceToDeadLetterQueue(ctx context.Context, record models.UsageRecord, errorResult utils.AnyResult) {
	failedRecord := models.FailedRecord{
		ID:                  uuid.NewString(),
		Record:              record,
		InitialErrorMessage: errorResult.ErrorMsg(),
		ErrorCode:           errorResult.ErrorCode(),
		ErrorMessage:        errorResult.ErrorMessage(),
		FailedAt:            time.Now(),
	}

	recordJson, err := json.Marshal(failedRecord)
	if err != nil {
		rps.logger.Error("error while marshaling failed record with error details")
		utils.CaptureError(err)
		return
	}

	pushed := rps.deadLetterProducer.Produce(ctx, &kafka.ProducerMessage{
		Value: recordJson,
	})

	if !pushed {
		rps.logger.Error("error while pushing to dead letter topic", slog.String("topic", rps.deadLetterProducer.GetTopic()))
		utils.CaptureErrorResultWithExtra(errorResult, "record", record)
	}
}
