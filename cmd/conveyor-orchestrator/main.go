// Conveyor Orchestrator — ядро системы.
//
// Orchestrator:
//   - Обслуживает управляющий HTTP API (start/stop/status оркестраций)
//   - Потребляет события step.executed и step.failed из RabbitMQ
//   - Разворачивает fan-out по графу и переносит данные между процессорами
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Conveyor/internal/api"
	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/health"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/orchestrator"
	"github.com/shaiso/Conveyor/internal/repo"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting conveyor-orchestrator")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Создаём репозитории и загрузчик определений
	flowRepo := repo.NewOrchestratedFlowRepo(pool)
	workflowRepo := repo.NewWorkflowRepo(pool)
	assignmentRepo := repo.NewAssignmentRepo(pool)
	definitions := repo.NewDefinitions(flowRepo, workflowRepo, assignmentRepo)

	// Redis
	redisClient, err := cache.NewClient(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("redis connected")

	graphTTL := time.Hour
	if v := os.Getenv("GRAPH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			graphTTL = d
		} else {
			logger.Warn("invalid GRAPH_TTL, using default", "value", v)
		}
	}

	graphs := cache.NewGraphCache(redisClient, logger)
	data := cache.NewDataCache(redisClient, 0, logger)
	healthStore := cache.NewHealthStore(redisClient, logger)
	gate := health.NewGate(healthStore, logger)

	// RabbitMQ — без него оркестратор бесполезен
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, "conveyor-orchestrator", logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	publisher := mq.NewPublisher(mqConn, logger)

	// Создаём orchestrator
	orch := orchestrator.New(orchestrator.Config{
		Definitions: definitions,
		Graphs:      graphs,
		Data:        data,
		Gate:        gate,
		Dispatcher:  publisher,
		Conn:        mqConn,
		GraphTTL:    graphTTL,
		Logger:      logger,
	})

	// Запускаем consumers событий
	if err := orch.Start(ctx); err != nil {
		logger.Error("failed to start orchestrator", "error", err)
		os.Exit(1)
	}

	// HTTP mux: управляющий API + /healthz + /metrics
	mux := http.NewServeMux()
	control := api.NewControlHandler(orch, logger)
	control.RegisterRoutes(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Без брокера оркестратор не может ни принимать события, ни
		// диспатчить шаги
		if !mqConn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("mq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("ORCH_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	orch.Stop()
	logger.Info("conveyor-orchestrator stopped")
}
