package processor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Execution — контекст одного выполнения шага, передаваемый Handler.
type Execution struct {
	// OrchestratedFlowID — экземпляр потока.
	OrchestratedFlowID uuid.UUID

	// StepID — выполняемый шаг.
	StepID uuid.UUID

	// ExecutionID — идентификатор каскада.
	ExecutionID uuid.UUID

	// CorrelationID — идентификатор корреляции.
	CorrelationID uuid.UUID

	// Input — входные данные из региона кэша процессора.
	// Пустая строка, если оркестратор не нашёл данных для переноса.
	Input string

	// Assignments — параметры шага из execute-команды.
	Assignments []domain.Assignment
}

// Assignment возвращает значение параметра по имени.
func (e *Execution) Assignment(name string) (string, bool) {
	for _, a := range e.Assignments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Handler — функция обработки данных одного шага.
type Handler func(ctx context.Context, exec Execution) (output string, err error)

// Registry — реестр именованных handlers. Потокобезопасен.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// DefaultRegistry создаёт реестр со встроенными handlers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("passthrough", Passthrough)
	r.Register("uppercase", Uppercase)
	r.Register("annotate", Annotate)
	return r
}

// Register регистрирует handler под именем.
// Существующий handler с тем же именем перезаписывается.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get возвращает handler по имени.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, name)
	}

	return handler, nil
}

// Names возвращает список зарегистрированных имён.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
