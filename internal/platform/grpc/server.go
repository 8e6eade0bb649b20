// Package grpc hosts the gRPC health surface and its client probe.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer serves grpc.health.v1 for a named service.
type HealthServer struct {
	service  string
	listener net.Listener
	server   *gogrpc.Server
	health   *health.Server
	logger   *zap.Logger
}

// NewHealthServer binds addr and registers the health service in NOT_SERVING.
func NewHealthServer(addr, service string, logger *zap.Logger) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	server := gogrpc.NewServer(gogrpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		service:  service,
		listener: listener,
		server:   server,
		health:   healthServer,
		logger:   logger,
	}, nil
}

// Addr returns the bound listener address.
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// SetServing flips both the named and the overall status.
func (s *HealthServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(s.service, status)
	s.health.SetServingStatus("", status)
}

// Serve blocks until ctx ends or the server fails.
func (s *HealthServer) Serve(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("grpc health listening", zap.String("addr", s.Addr()))
		serveErr <- s.server.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.server.GracefulStop()
		err := <-serveErr
		if err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc health: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc health: %w", err)
		}
		return nil
	}
}

// Close stops the server and releases the listener without waiting for
// in-flight calls. Use it when Serve was never started.
func (s *HealthServer) Close() {
	s.health.Shutdown()
	s.server.Stop()
	_ = s.listener.Close()
}
