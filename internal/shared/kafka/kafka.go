package kafka

import "github.com/segmentio/kafka-go"

// NewWriter cria um producer para o tópico dado. Este serviço só produz
// (wager_placed pós-commit); não há consumidores aqui.
func NewWriter(brokers string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
