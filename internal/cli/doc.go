// Package cli реализует инструмент командной строки Conveyor.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с HTTP-поверхностями
// Conveyor. Работает через HTTP, не импортирует внутренние пакеты
// системы. Используется для управления processors, workflows,
// orchestrated flows и оркестрациями.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для двух поверхностей: административного API (data/list
// обёртки ответов) и управляющего API оркестратора (плоский JSON
// по контракту start/stop/status).
//
//	client := cli.NewClient("http://localhost:8080", "http://localhost:8081")
//	processors, err := client.ListProcessors()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: conveyor flow list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - processor:     list, create, show, delete
//   - workflow:      list, create, show, delete, steps, add-step
//   - flow:          list, create, show, delete, assignments, add-assignment
//   - orchestration: start, stop, status
//
// Каждая группа создаётся через фабричную функцию (NewFlowCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
