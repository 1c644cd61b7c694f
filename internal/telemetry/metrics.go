package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики оркестрации. Регистрируются в default registry,
// экспортируются через /metrics в main каждого сервиса.
var (
	// OrchestrationsStarted — количество успешных стартов оркестраций.
	OrchestrationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "orchestrations_started_total",
		Help:      "Number of successfully started orchestrations.",
	})

	// OrchestrationsStopped — количество остановленных оркестраций.
	OrchestrationsStopped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "orchestrations_stopped_total",
		Help:      "Number of stopped orchestrations.",
	})

	// StepsDispatched — количество опубликованных execute-команд.
	StepsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "steps_dispatched_total",
		Help:      "Number of execute commands dispatched to processors.",
	})

	// StepsCompleted — количество обработанных событий step.executed.
	StepsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "steps_completed_total",
		Help:      "Number of step completion events processed.",
	})

	// StepsFailed — количество обработанных событий step.failed.
	StepsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "steps_failed_total",
		Help:      "Number of step failure events processed.",
	})

	// BranchesTerminated — количество завершённых веток графа.
	BranchesTerminated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "branches_terminated_total",
		Help:      "Number of DAG branches that reached a leaf step.",
	})

	// DataMoves — количество переносов данных между регионами кэша.
	DataMoves = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "data_moves_total",
		Help:      "Number of data cache hand-offs between processors.",
	})
)
