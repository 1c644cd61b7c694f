// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - step.execute   — команда процессору выполнить шаг
//   - step.executed  — процессор завершил шаг
//   - step.failed    — процессор не смог выполнить шаг
//
// Exchanges:
//   - conveyor.execute — execute-команды (routing key = processor id)
//   - conveyor.events  — события завершения шагов
//   - conveyor.dlq     — dead letter queue
//
// Доставка at-least-once: обработчики обязаны переносить дубликаты
// команд с одинаковыми (stepId, executionId, correlationId).
package mq
