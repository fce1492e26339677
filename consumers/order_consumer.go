package consumers

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"shop-api/config"
	"shop-api/middlewares"
	"shop-api/rabbitmq"
)

func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config) {
	// 消费主订单队列
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"shop-api", // consumers tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumers: %v", err)
	}

	go func() {
		for msg := range msgs {
			processOrderEvent(msg)
		}
	}()

	// 消费死信队列
	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"shop-api-dlq", // consumers tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumers: %v", err)
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderEvent(msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in event processing: %v", r)
		}
	}()

	var event rabbitmq.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid event payload: %s", msg.Body)
		err := msg.Nack(false, false) // 拒绝消息，不重新入队
		if err != nil {
			return
		}
		return
	}

	switch event.Type {
	case rabbitmq.EventOrderCreated, rabbitmq.EventShippingUpdated, rabbitmq.EventOrderPaid:
		middlewares.RecordOrderEvent(event.Type)
		log.Printf("Order event: id=%d type=%s", event.OrderID, event.Type)
	default:
		log.Printf("Unknown event type: %s", event.Type)
	}

	err := msg.Ack(false)
	if err != nil {
		return
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	err := msg.Ack(false)
	if err != nil {
		return
	}
}
