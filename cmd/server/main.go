package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/devops-orders/orders-service/internal/items"
	"github.com/devops-orders/orders-service/internal/messaging"
	"github.com/devops-orders/orders-service/internal/orders"
	"github.com/devops-orders/orders-service/internal/server"
	"github.com/devops-orders/orders-service/internal/telemetry"
)

const (
	serviceName    = "orders-service"
	serviceVersion = "1.0.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = "order.events"
		}
		producer = messaging.NewProducer(brokers, topic)
		defer func() { _ = producer.Close() }()
	}

	orderRepo := orders.NewOrderRepository(db)
	orderHandler, err := orders.NewHandler(orderRepo, producer, logger)
	if err != nil {
		logger.Error("failed to create order handler", "error", err)
		os.Exit(1)
	}

	itemRepo := items.NewItemRepository(db)
	itemHandler := items.NewHandler(itemRepo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", server.HandleHealth)
	mux.HandleFunc("GET /{$}", server.NewIndexHandler(serviceName, serviceVersion, logger))
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("PUT /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleUpdate))
	mux.HandleFunc("DELETE /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleDelete))
	mux.HandleFunc("PUT /orders/{id}/cancel", telemetry.WithHTTPRoute(orderHandler.HandleCancel))
	mux.HandleFunc("POST /orders/{id}/repeat", telemetry.WithHTTPRoute(orderHandler.HandleRepeat))

	mux.HandleFunc("POST /orders/{id}/items", telemetry.WithHTTPRoute(itemHandler.HandleCreate))
	mux.HandleFunc("GET /orders/{id}/items", telemetry.WithHTTPRoute(itemHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}/items/{itemID}", telemetry.WithHTTPRoute(itemHandler.HandleGet))
	mux.HandleFunc("PUT /orders/{id}/items/{itemID}", telemetry.WithHTTPRoute(itemHandler.HandleUpdate))
	mux.HandleFunc("DELETE /orders/{id}/items/{itemID}", telemetry.WithHTTPRoute(itemHandler.HandleDelete))

	handler := server.RequestLogger(logger)(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(handler, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orders service", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
