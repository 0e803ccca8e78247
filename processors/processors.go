package processors

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/carrierx/settlement/rating-engine/config/database"
	"github.com/carrierx/settlement/rating-engine/config/kafka"
	"github.com/carrierx/settlement/rating-engine/config/redis"
	"github.com/carrierx/settlement/rating-engine/models"
	"github.com/carrierx/settlement/rating-engine/rating"
	"github.com/carrierx/settlement/rating-engine/utils"
)

const (
	envEnv                               = "ENV"
	envDatabaseURL                       = "DATABASE_URL"
	envRatingDatabaseMaxConnections      = "RATING_ENGINE_DATABASE_MAX_CONNECTIONS"
	envRatingKafkaBootstrapServers       = "RATING_ENGINE_KAFKA_BOOTSTRAP_SERVERS"
	envRatingKafkaConsumerGroup          = "RATING_ENGINE_KAFKA_CONSUMER_GROUP"
	envRatingKafkaPassword               = "RATING_ENGINE_KAFKA_PASSWORD"
	envRatingKafkaRatedRecordsTopic      = "RATING_ENGINE_KAFKA_RATED_RECORDS_TOPIC"
	envRatingKafkaRawRecordsTopic        = "RATING_ENGINE_KAFKA_RAW_RECORDS_TOPIC"
	envRatingKafkaRecordsDeadLetterTopic = "RATING_ENGINE_KAFKA_RECORDS_DEAD_LETTER_TOPIC"
	envRatingKafkaScramAlgorithm         = "RATING_ENGINE_KAFKA_SCRAM_ALGORITHM"
	envRatingKafkaTLS                    = "RATING_ENGINE_KAFKA_TLS"
	envRatingKafkaUsername               = "RATING_ENGINE_KAFKA_USERNAME"
	envRatingRedisStoreDB                = "RATING_ENGINE_REDIS_STORE_DB"
	envRatingRedisStorePassword          = "RATING_ENGINE_REDIS_STORE_PASSWORD"
	envRatingRedisStoreTLS               = "RATING_ENGINE_REDIS_STORE_TLS"
	envRatingRedisStoreURL               = "RATING_ENGINE_REDIS_STORE_URL"

	billingRefreshFlag = "billing_period_refresh"
)

type Config struct {
	Logger       *slog.Logger
	UseTelemetry bool
}

func initProducer(ctx context.Context, kafkaConfig kafka.ServerConfig, topicEnv string) utils.Result[*kafka.Producer] {
	topic := os.Getenv(topicEnv)
	if topic == "" {
		return utils.FailedResult[*kafka.Producer](fmt.Errorf("%s variable is required", topicEnv))
	}

	producer, err := kafka.NewProducer(
		kafkaConfig,
		&kafka.ProducerConfig{
			Topic: topic,
		})
	if err != nil {
		return utils.FailedResult[*kafka.Producer](err)
	}

	err = producer.Ping(ctx)
	if err != nil {
		return utils.FailedResult[*kafka.Producer](err)
	}

	return utils.SuccessResult(producer)
}

func initFlagStore(ctx context.Context, name string) (*models.FlagStore, error) {
	redisDb, err := utils.GetEnvAsInt(envRatingRedisStoreDB, 0)
	if err != nil {
		return nil, err
	}

	redisConfig := redis.RedisConfig{
		Address:  os.Getenv(envRatingRedisStoreURL),
		Password: os.Getenv(envRatingRedisStorePassword),
		DB:       redisDb,
		UseTLS:   utils.GetEnvAsBool(envRatingRedisStoreTLS, os.Getenv(envEnv) == "production"),
	}

	db, err := redis.NewRedisDB(ctx, redisConfig)
	if err != nil {
		return nil, err
	}

	return models.NewFlagStore(ctx, db, name), nil
}

// StartProcessingRecords wires the rating engine to its collaborators and
// consumes raw usage records until the context is canceled.
func StartProcessingRecords(ctx context.Context, cfg *Config) {
	logger := cfg.Logger

	serverBrokers := utils.ParseBrokersEnv(os.Getenv(envRatingKafkaBootstrapServers))
	if len(serverBrokers) == 0 {
		logger.Error("brokers not found")
		panic("brokers not found")
	}

	kafkaConfig := kafka.ServerConfig{
		ScramAlgorithm: os.Getenv(envRatingKafkaScramAlgorithm),
		TLS:            os.Getenv(envRatingKafkaTLS) == "true",
		Servers:        serverBrokers,
		UseTelemetry:   cfg.UseTelemetry,
		UserName:       os.Getenv(envRatingKafkaUsername),
		Password:       os.Getenv(envRatingKafkaPassword),
	}

	ratedProducerResult := initProducer(ctx, kafkaConfig, envRatingKafkaRatedRecordsTopic)
	if ratedProducerResult.Failure() {
		logger.Error(ratedProducerResult.ErrorMsg())
		utils.CaptureErrorResult(ratedProducerResult)
		panic(ratedProducerResult.ErrorMsg())
	}

	deadLetterProducerResult := initProducer(ctx, kafkaConfig, envRatingKafkaRecordsDeadLetterTopic)
	if deadLetterProducerResult.Failure() {
		logger.Error(deadLetterProducerResult.ErrorMsg())
		utils.CaptureErrorResult(deadLetterProducerResult)
		panic(deadLetterProducerResult.ErrorMsg())
	}

	maxConns, err := utils.GetEnvAsInt(envRatingDatabaseMaxConnections, 200)
	if err != nil {
		logger.Error("Error converting max connections into integer", slog.String("error", err.Error()))
		utils.CaptureError(err)
		panic(err.Error())
	}

	dbConfig := database.DBConfig{
		Url:      os.Getenv(envDatabaseURL),
		MaxConns: int32(maxConns),
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Error("Error connecting to the database", slog.String("error", err.Error()))
		utils.CaptureError(err)
		panic(err.Error())
	}
	rateStore := models.NewRateStore(db)
	defer db.Close()

	flagger, err := initFlagStore(ctx, billingRefreshFlag)
	if err != nil {
		logger.Error("Error connecting to the flag store", slog.String("error", err.Error()))
		utils.CaptureError(err)
		panic(err.Error())
	}
	defer flagger.Close()

	processor := NewRecordsProcessor(
		logger,
		rating.NewService(logger, rateStore),
		NewRecordProducerService(
			ratedProducerResult.Value(),
			deadLetterProducerResult.Value(),
			logger,
		),
		rating.NewBillingRefreshService(flagger),
	)

	cg, err := kafka.NewConsumerGroup(
		kafkaConfig,
		&kafka.ConsumerGroupConfig{
			Topic:          os.Getenv(envRatingKafkaRawRecordsTopic),
			ConsumerGroup:  os.Getenv(envRatingKafkaConsumerGroup),
			ProcessRecords: processor.ProcessRecords,
		})
	if err != nil {
		logger.Error("Error starting the records consumer", slog.String("error", err.Error()))
		utils.CaptureError(err)
		panic(err.Error())
	}

	if err := cg.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("Consumer group stopped", slog.String("error", err.Error()))
	}
}
