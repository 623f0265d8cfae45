package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/footballdata"
	"github.com/corray333/atlas-cafe/internal/dal/genai"
	"github.com/corray333/atlas-cafe/internal/dal/interfaces/ikitchenrepo"
	"github.com/corray333/atlas-cafe/internal/dal/interfaces/imatchrepo"
	"github.com/corray333/atlas-cafe/internal/dal/rabbitmq"
	dalredis "github.com/corray333/atlas-cafe/internal/dal/redis"
	"github.com/corray333/atlas-cafe/internal/dal/repositories/kitchen"
	matchmemory "github.com/corray333/atlas-cafe/internal/dal/repositories/match/memory"
	matchredis "github.com/corray333/atlas-cafe/internal/dal/repositories/match/redis"
	outboxmemory "github.com/corray333/atlas-cafe/internal/dal/repositories/outbox/memory"
	kitchendispatch "github.com/corray333/atlas-cafe/internal/dispatch/kitchen"
	"github.com/corray333/atlas-cafe/internal/otel"
	"github.com/corray333/atlas-cafe/internal/service/services/mediasvc"
	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/corray333/atlas-cafe/internal/service/services/schedulesvc"
	grpctransport "github.com/corray333/atlas-cafe/internal/transport/grpc"
	httptransport "github.com/corray333/atlas-cafe/internal/transport/http"
	outboxworker "github.com/corray333/atlas-cafe/internal/worker/outbox"
	scheduleworker "github.com/corray333/atlas-cafe/internal/worker/schedule"
	sessionworker "github.com/corray333/atlas-cafe/internal/worker/session"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	otel           *otel.OtelController
	orderSvc       *ordersvc.OrderService
	dispatcher     *kitchendispatch.Dispatcher
	transport      *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	scheduleWorker *scheduleworker.Worker
	outboxWorker   *outboxworker.Worker
	sessionWorker  *sessionworker.Worker
	redisClient    *dalredis.Client
	rabbitClient   *rabbitmq.Client
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{
		otel: otel.MustInitOtel(),
	}

	matchRepo := a.mustNewMatchRepository()
	kitchenRepo := a.mustNewKitchenRepository()
	outboxRepo := outboxmemory.NewOutboxRepository()

	a.dispatcher = kitchendispatch.MustNewDispatcher(kitchenRepo, outboxRepo)
	a.outboxWorker = outboxworker.NewWorker(outboxRepo, kitchenRepo)

	a.orderSvc = ordersvc.MustNewOrderService(
		ordersvc.WithMatchRepository(matchRepo),
		ordersvc.WithSessionListener(a.dispatcher.Listener),
	)

	a.scheduleWorker = scheduleworker.NewWorker(mustNewScheduleService(), a.orderSvc)
	a.sessionWorker = sessionworker.NewWorker(a.orderSvc)

	mediaSvc := mediasvc.MustNewMediaService(
		mediasvc.WithGenerator(genai.MustNewClient()),
	)

	a.transport = httptransport.NewHTTPTransport(a.orderSvc, mediaSvc)
	a.transport.RegisterRoutes()

	if viper.GetBool("server.grpc.enabled") {
		a.grpcTransport = grpctransport.NewGRPCTransport()
		a.grpcTransport.SetServing(grpctransport.ComponentSchedule, true)
		a.grpcTransport.SetServing(grpctransport.ComponentKitchen, true)
	}

	return a
}

func mustNewScheduleService() *schedulesvc.ScheduleService {
	if viper.GetString("football_data.api_key") == "" {
		slog.Warn("football-data API key is not set, serving the fallback schedule")

		return schedulesvc.MustNewScheduleService()
	}

	return schedulesvc.MustNewScheduleService(
		schedulesvc.WithMatchesClient(footballdata.MustNewClient()),
	)
}

func (a *App) mustNewMatchRepository() imatchrepo.IMatchRepository {
	if !viper.GetBool("redis.enabled") {
		return matchmemory.NewMatchRepository()
	}
	a.redisClient = dalredis.MustNewClient()

	return matchredis.NewMatchRepository(a.redisClient, viper.GetDuration("redis.matches_ttl"))
}

func (a *App) mustNewKitchenRepository() ikitchenrepo.IKitchenRepository {
	queue := viper.GetString("rabbitmq.kitchen_queue")
	if !viper.GetBool("rabbitmq.enabled") {
		return kitchen.NewKitchenLogRepository(queue)
	}
	a.rabbitClient = rabbitmq.MustNewClient()

	return kitchen.NewKitchenRabbitMQRepository(a.rabbitClient, queue)
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.scheduleWorker.Start(ctx)
	go a.outboxWorker.Start(ctx)
	go a.sessionWorker.Start(ctx)

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if a.grpcTransport != nil {
		go func() {
			if err := a.grpcTransport.Run(); err != nil {
				slog.Error("gRPC server error", "error", err)
			}
		}()
	}

	<-stop
	slog.Info("Shutdown signal received")
	a.shutdown(cancel)
}

func (a *App) shutdown(cancel context.CancelFunc) {
	ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.grpcTransport != nil {
		if err := a.grpcTransport.Shutdown(ctx); err != nil {
			slog.Error("gRPC server shutdown error", "error", err)
		} else {
			slog.Info("gRPC server stopped gracefully")
		}
	}

	a.scheduleWorker.Stop()
	a.sessionWorker.Stop()
	cancel()

	if err := a.dispatcher.Shutdown(); err != nil {
		slog.Error("Kitchen dispatcher shutdown error", "error", err)
	}
	a.outboxWorker.Stop()

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			slog.Error("Redis connection close error", "error", err)
		} else {
			slog.Info("Redis connection closed gracefully")
		}
	}

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
