// Conveyor Processor — референсный processor runtime.
//
// Обслуживает один процессор: потребляет execute-команды из своей
// очереди, прогоняет данные через handler и публикует события
// о завершении. Параллельно публикует свой health record.
//
// Идентификатор процессора задаётся через PROCESSOR_ID (обязателен),
// handler по умолчанию — через PROCESSOR_HANDLER.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Conveyor/internal/cache"
	"github.com/shaiso/Conveyor/internal/health"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/processor"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting conveyor-processor")

	processorID, err := uuid.Parse(os.Getenv("PROCESSOR_ID"))
	if err != nil {
		logger.Error("PROCESSOR_ID is required and must be a uuid", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Redis
	redisClient, err := cache.NewClient(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("redis connected")

	data := cache.NewDataCache(redisClient, 0, logger)
	healthStore := cache.NewHealthStore(redisClient, logger)

	// RabbitMQ
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, "conveyor-processor/"+processorID.String(), logger)
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

	reporter := health.NewReporter(health.ReporterConfig{
		Store:       healthStore,
		ProcessorID: processorID,
		Logger:      logger,
	})

	// Создаём runtime
	rt := processor.New(processor.Config{
		ProcessorID: processorID,
		HandlerName: os.Getenv("PROCESSOR_HANDLER"),
		Data:        data,
		Publisher:   publisher,
		Reporter:    reporter,
		Conn:        mqConn,
		Logger:      logger,
	})

	if err := rt.Start(ctx); err != nil {
		logger.Error("failed to start processor runtime", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("mq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("PROCESSOR_PORT"); v != "" {
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

	rt.Stop()
	logger.Info("conveyor-processor stopped")
}
