package health

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrProcessorsUnhealthy — хотя бы один процессор не прошёл health gate.
// Конкретный список нарушителей несёт UnhealthyProcessorsError.
var ErrProcessorsUnhealthy = errors.New("processors unhealthy")

// UnhealthyProcessor — один нарушитель health gate.
type UnhealthyProcessor struct {
	ProcessorID uuid.UUID
	Reason      string
}

// UnhealthyProcessorsError — ошибка health gate с полным списком
// нарушителей. Все процессоры проверяются независимо, поэтому ошибка
// называет каждого, а не только первого.
type UnhealthyProcessorsError struct {
	Processors []UnhealthyProcessor
}

// Error возвращает описание со всеми нарушителями и причинами.
func (e *UnhealthyProcessorsError) Error() string {
	parts := make([]string, len(e.Processors))
	for i, p := range e.Processors {
		parts[i] = fmt.Sprintf("%s (%s)", p.ProcessorID, p.Reason)
	}
	return "processors unhealthy: " + strings.Join(parts, ", ")
}

// Is поддерживает errors.Is(err, ErrProcessorsUnhealthy).
func (e *UnhealthyProcessorsError) Is(target error) bool {
	return target == ErrProcessorsUnhealthy
}
