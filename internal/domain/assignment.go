package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment — параметр времени выполнения для шага.
//
// Assignments передаются процессору внутри execute-команды как
// непрозрачные пары имя/значение. Conveyor их не интерпретирует.
type Assignment struct {
	// ID — уникальный идентификатор assignment.
	ID uuid.UUID `json:"id"`

	// StepID — шаг, которому передаётся параметр.
	StepID uuid.UUID `json:"step_id"`

	// Name — имя параметра.
	Name string `json:"name"`

	// Value — значение параметра (непрозрачная строка).
	Value string `json:"value"`

	// Position — порядок параметра среди assignments одного шага.
	Position int `json:"position"`

	// CreatedAt — время создания assignment.
	CreatedAt time.Time `json:"created_at"`
}
