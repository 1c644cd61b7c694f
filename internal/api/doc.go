// Package api содержит HTTP-поверхности Conveyor.
//
// Две поверхности:
//   - административная (conveyor-api) — CRUD над processors, workflows,
//     steps, assignments и orchestrated flows;
//   - управляющая (conveyor-orchestrator) — start/stop/status оркестраций.
//
// Структура:
//   - handler.go               — Handler админ-API с DI (репозитории, logger)
//   - control_handler.go       — ControlHandler поверх Orchestrator
//   - routes.go                — регистрация маршрутов
//   - middleware.go            — middleware (logging, recovery)
//   - response.go              — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                   — Data Transfer Objects (request/response)
//   - processor_handler.go     — обработчики для /processors
//   - workflow_handler.go      — обработчики для /workflows и вложенных /steps
//   - assignment_handler.go    — обработчики для /assignments
//   - flow_handler.go          — обработчики для /flows (orchestrated flows)
package api
