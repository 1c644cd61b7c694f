package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Conveyor/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeExecuteStep  MessageType = "step.execute"
	MessageTypeStepExecuted MessageType = "step.executed"
	MessageTypeStepFailed   MessageType = "step.failed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ExecuteStepPayload — execute-команда процессору. Неизменяема после
// публикации: все идентификаторы зафиксированы в момент dispatch.
type ExecuteStepPayload struct {
	// ProcessorID — процессор, которому адресована команда.
	ProcessorID uuid.UUID `json:"processor_id"`

	// OrchestratedFlowID — экземпляр потока.
	OrchestratedFlowID uuid.UUID `json:"orchestrated_flow_id"`

	// StepID — выполняемый шаг.
	StepID uuid.UUID `json:"step_id"`

	// ExecutionID — идентификатор каскада: минтится при entry-point
	// dispatch и передаётся неизменным через весь порождённый fan-out.
	ExecutionID uuid.UUID `json:"execution_id"`

	// CorrelationID — идентификатор корреляции, аналогично ExecutionID.
	CorrelationID uuid.UUID `json:"correlation_id"`

	// Assignments — параметры шага (пустой список, если их нет).
	Assignments []domain.Assignment `json:"assignments,omitempty"`
}

// StepExecutedPayload — событие об успешном выполнении шага.
type StepExecutedPayload struct {
	ProcessorID        uuid.UUID `json:"processor_id"`
	OrchestratedFlowID uuid.UUID `json:"orchestrated_flow_id"`
	StepID             uuid.UUID `json:"step_id"`
	ExecutionID        uuid.UUID `json:"execution_id"`
	CorrelationID      uuid.UUID `json:"correlation_id"`
}

// StepFailedPayload — событие об ошибке выполнения шага.
type StepFailedPayload struct {
	ProcessorID        uuid.UUID `json:"processor_id"`
	OrchestratedFlowID uuid.UUID `json:"orchestrated_flow_id"`
	StepID             uuid.UUID `json:"step_id"`
	ExecutionID        uuid.UUID `json:"execution_id"`
	CorrelationID      uuid.UUID `json:"correlation_id"`
	Error              string    `json:"error,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishExecuteStep публикует execute-команду в очередь процессора.
// Потребитель: processor runtime.
func (p *Publisher) PublishExecuteStep(ctx context.Context, payload ExecuteStepPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeExecuteStep,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeExecute, RoutingKey(payload.ProcessorID.String()), msg)
}

// PublishStepExecuted публикует событие об успешном выполнении шага.
// Потребитель: Orchestrator.
func (p *Publisher) PublishStepExecuted(ctx context.Context, payload StepExecutedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeStepExecuted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyExecuted, msg)
}

// PublishStepFailed публикует событие об ошибке выполнения шага.
// Потребитель: Orchestrator.
func (p *Publisher) PublishStepFailed(ctx context.Context, payload StepFailedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeStepFailed,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyFailed, msg)
}
