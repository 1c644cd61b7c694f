// Package cache предоставляет Redis-адаптеры для внешнего состояния системы.
//
// Структура:
//   - redis.go        — подключение к Redis
//   - keys.go         — схема ключей
//   - graph_cache.go  — кэш графов оркестраций (FlowGraph, TTL)
//   - data_cache.go   — кэш рабочих данных процессоров (регионы по процессору)
//   - health_store.go — записи о здоровье процессоров
//
// Всё долговременное состояние оркестрации живёт здесь, а не в памяти
// процессов: граф пишется один раз при старте и только читается
// обработчиками событий, данные шагов переносятся между регионами
// процессоров при hand-off.
package cache
