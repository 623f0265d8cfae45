package grpctransport

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// Component names reported through the health service.
const (
	ComponentCafe     = ""
	ComponentSchedule = "cafe.Schedule"
	ComponentKitchen  = "cafe.Kitchen"
)

// GRPCTransport serves the standard gRPC health service so orchestrators can health-check the cafe.
type GRPCTransport struct {
	server   *grpc.Server
	listener net.Listener
	health   *health.Server
}

// NewGRPCTransport creates a new GRPCTransport listening on server.grpc.port.
func NewGRPCTransport() *GRPCTransport {
	listener, err := net.Listen("tcp", ":"+viper.GetString("server.grpc.port"))
	if err != nil {
		panic(err)
	}

	return NewGRPCTransportFrom(listener)
}

// NewGRPCTransportFrom creates a GRPCTransport on an existing listener.
func NewGRPCTransportFrom(listener net.Listener) *GRPCTransport {
	return &GRPCTransport{
		server:   newGRPCServer(),
		listener: listener,
		health:   health.NewServer(),
	}
}

// Run starts the gRPC server.
func (g *GRPCTransport) Run() error {
	g.RegisterServices()
	slog.Info("Starting gRPC server", "address", g.listener.Addr().String())

	return g.server.Serve(g.listener)
}

// Addr returns the listening address.
func (g *GRPCTransport) Addr() net.Addr {
	return g.listener.Addr()
}

// SetServing updates the reported status of a component.
func (g *GRPCTransport) SetServing(component string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus(component, status)
}

// Shutdown gracefully shuts down the gRPC server.
func (g *GRPCTransport) Shutdown(ctx context.Context) error {
	g.health.Shutdown()

	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.server.Stop()

		return ctx.Err()
	}
}

// RegisterServices registers the gRPC services.
func (g *GRPCTransport) RegisterServices() {
	healthpb.RegisterHealthServer(g.server, g.health)
	reflection.Register(g.server)
}

// newGRPCServer creates a new gRPC server with keepalive settings from config.
func newGRPCServer() *grpc.Server {
	keepaliveParams := keepalive.ServerParameters{
		MaxConnectionIdle: viper.GetDuration("server.grpc.keepalive.max_connection_idle"),
		MaxConnectionAge:  viper.GetDuration("server.grpc.keepalive.max_connection_age"),
		Time:              viper.GetDuration("server.grpc.keepalive.time"),
		Timeout:           viper.GetDuration("server.grpc.keepalive.timeout"),
	}

	keepalivePolicy := keepalive.EnforcementPolicy{
		MinTime:             viper.GetDuration("server.grpc.keepalive.min_time"),
		PermitWithoutStream: viper.GetBool("server.grpc.keepalive.permit_without_stream"),
	}

	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepaliveParams),
		grpc.KeepaliveEnforcementPolicy(keepalivePolicy),
		grpc.ConnectionTimeout(10 * time.Second),
	}

	return grpc.NewServer(opts...)
}
