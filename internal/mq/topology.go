package mq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeExecute Exchange = "conveyor.execute"
	ExchangeEvents  Exchange = "conveyor.events"
	ExchangeDLQ     Exchange = "conveyor.dlq"
)

// Queues — имена очередей оркестратора.
const (
	QueueStepsExecuted Queue = "steps.executed"
	QueueStepsFailed   Queue = "steps.failed"
	QueueDLQExecute    Queue = "dlq.execute"
)

// Routing keys.
const (
	RoutingKeyExecuted   RoutingKey = "executed"
	RoutingKeyFailed     RoutingKey = "failed"
	RoutingKeyDLQExecute RoutingKey = "execute"
)

// ProcessorQueue возвращает имя очереди execute-команд процессора.
// Каждый процессор потребляет только свою очередь; ключом маршрутизации
// служит его идентификатор.
func ProcessorQueue(processorID uuid.UUID) Queue {
	return Queue("execute." + processorID.String())
}

// SetupTopology объявляет общую топологию: обменники и очереди оркестратора.
// Очереди процессоров объявляются самими процессорами при старте
// (DeclareProcessorQueue).
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}

		if err := declareEventQueues(ch); err != nil {
			return err
		}

		return bindEventQueues(ch)
	})
}

// DeclareProcessorQueue объявляет и привязывает очередь execute-команд
// одного процессора. Идемпотентно; вызывается процессором при старте.
func DeclareProcessorQueue(ctx context.Context, conn *Connection, processorID uuid.UUID) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		queue := ProcessorQueue(processorID)

		// Неразобранные команды уходят в DLQ
		args := amqp.Table{
			"x-dead-letter-exchange":    string(ExchangeDLQ),
			"x-dead-letter-routing-key": string(RoutingKeyDLQExecute),
		}

		if _, err := ch.QueueDeclare(
			string(queue), // name
			true,          // durable
			false,         // delete when unused
			false,         // exclusive
			false,         // no-wait
			args,          // arguments
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		if err := ch.QueueBind(
			string(queue),          // queue name
			processorID.String(),   // routing key = processor id
			string(ExchangeExecute), // exchange
			false,                  // no-wait
			nil,                    // arguments
		); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeExecute, "direct"},
		{ExchangeEvents, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareEventQueues создаёт очереди событий и DLQ.
func declareEventQueues(ch *amqp.Channel) error {
	queues := []Queue{
		// события завершения — без DLQ, redelivery через nack/requeue
		QueueStepsExecuted,
		QueueStepsFailed,

		// сама DLQ очередь
		QueueDLQExecute,
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q), // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			nil,       // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	return nil
}

// bindEventQueues привязывает очереди событий к обменникам.
func bindEventQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueStepsExecuted, RoutingKeyExecuted, ExchangeEvents},
		{QueueStepsFailed, RoutingKeyFailed, ExchangeEvents},
		{QueueDLQExecute, RoutingKeyDLQExecute, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
