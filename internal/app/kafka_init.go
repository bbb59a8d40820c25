package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/messaging/kafka"
)

// initKafkaProducer создаёт producer, если брокеры заданы.
// Возвращает nil, nil для пустого списка брокеров.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers, logger)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// initOrderEventPublisher оборачивает producer паблишером событий заказов.
func initOrderEventPublisher(producer *kafka.Producer, topic string, logger *log.Entry) *kafka.OrderEventPublisher {
	publisher := kafka.NewOrderEventPublisher(producer, topic)
	logger.WithField("topic", publisher.Topic()).Info("order events publishing enabled")
	return publisher
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
