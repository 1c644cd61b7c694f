package domain

import (
	"time"

	"github.com/google/uuid"
)

// Processor — независимый сервис обработки данных.
//
// Processor выполняет работу одного шага: получает execute-команду из своей
// очереди, обрабатывает данные и публикует событие о завершении.
// Conveyor не знает деталей обработки — только идентификатор и здоровье.
type Processor struct {
	// ID — уникальный идентификатор процессора.
	// Используется как routing key очереди и как имя региона кэша данных.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя процессора (например, "enrich-orders").
	Name string `json:"name"`

	// Description — описание назначения процессора.
	Description string `json:"description,omitempty"`

	// IsActive — флаг активности. Неактивные процессоры не участвуют
	// в новых оркестрациях.
	IsActive bool `json:"is_active"`

	// CreatedAt — время регистрации процессора.
	CreatedAt time.Time `json:"created_at"`
}
