package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// Схема ключей Redis:
//
//	conveyor:graph:<orchestratedFlowID>                 — FlowGraph
//	conveyor:data:<processorID>:<composite>             — рабочие данные шага
//	conveyor:processor-health:<processorID>             — HealthRecord
//
// <composite> = flowID:stepID:executionID:correlationID — ключ уникален
// для одного экземпляра шага внутри одного каскада, поэтому параллельные
// обработчики никогда не конкурируют за один ключ при корректной доставке.
const keyPrefix = "conveyor"

// DataKey — составной ключ записи в кэше данных процессора.
type DataKey struct {
	// OrchestratedFlowID — экземпляр потока.
	OrchestratedFlowID uuid.UUID

	// StepID — шаг, которому принадлежат данные.
	StepID uuid.UUID

	// ExecutionID — идентификатор каскада (минтится на entry-point dispatch).
	ExecutionID uuid.UUID

	// CorrelationID — идентификатор корреляции каскада.
	CorrelationID uuid.UUID
}

// String возвращает детерминированное строковое представление ключа.
func (k DataKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s",
		k.OrchestratedFlowID, k.StepID, k.ExecutionID, k.CorrelationID)
}

// graphKey — ключ кэшированного FlowGraph.
func graphKey(flowID uuid.UUID) string {
	return fmt.Sprintf("%s:graph:%s", keyPrefix, flowID)
}

// dataKey — полный ключ записи в регионе процессора.
func dataKey(processorID uuid.UUID, key DataKey) string {
	return fmt.Sprintf("%s:data:%s:%s", keyPrefix, processorID, key)
}

// healthKey — ключ записи о здоровье процессора.
func healthKey(processorID uuid.UUID) string {
	return fmt.Sprintf("%s:processor-health:%s", keyPrefix, processorID)
}
