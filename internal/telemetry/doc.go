// Package telemetry — наблюдаемость сервисов Conveyor.
//
// Состав:
//   - logging.go — structured logging через slog (JSON в stdout)
//   - metrics.go — Prometheus счётчики оркестрации и шагов
//
// Оркестратор, API и процессоры используют единый формат логов
// и отдают метрики на своём /metrics endpoint.
package telemetry
