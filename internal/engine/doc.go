// Package engine содержит чистые функции над FlowGraph.
//
// Здесь нет I/O и состояния: поиск entry points и проверка структуры графа
// работают только с кэшированным значением FlowGraph.
//
// Единственная защита от циклов — требование непустого множества entry
// points: если каждый шаг на кого-то ссылается, граф целиком является
// циклом. Цикл, достижимый из валидного entry point (A→B→C→B),
// этой проверкой не обнаруживается.
package engine
