// Package orchestrator управляет выполнением orchestrated flows.
//
// Orchestrator отвечает за:
//   - Старт оркестрации: сборка и кэширование FlowGraph, health gate,
//     валидация entry points, dispatch execute-команд entry points
//   - Реакцию на события step.executed: поиск следующих шагов,
//     перенос данных между регионами процессоров, dispatch следующих команд
//   - Обнаружение конца ветки (шаг без следующих) и очистку остатков кэша
//   - Остановку оркестрации (удаление графа)
//
// У оркестратора нет собственного цикла выполнения на каждый поток:
// он чисто реактивен. Состояние между шагами живёт во внешних кэшах,
// поэтому экземпляры оркестратора масштабируются горизонтально.
package orchestrator
