// Package health реализует health gate оркестрации.
//
// Gate читает последние записи о здоровье процессоров и блокирует старт
// оркестрации, если хотя бы один участвующий процессор нездоров.
// Частичный старт не допускается.
//
// Reporter — встречная сторона: периодическая запись HealthRecord
// самим процессором (используется processor runtime).
package health
