package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrFlowNotFound — определение потока не найдено.
	ErrFlowNotFound = errors.New("orchestrated flow not found")

	// ErrOrchestrationNotFound — для экземпляра потока нет кэшированного
	// графа (остановлен, просрочен или не запускался).
	ErrOrchestrationNotFound = errors.New("orchestration not found")

	// ErrStepNotFound — шаг отсутствует в кэшированном графе
	// (висячая ссылка в NextStepIDs).
	ErrStepNotFound = errors.New("step not found in flow graph")
)
