// Package grpchealth exposes grpc.health.v1 for orchestrators that probe over gRPC.
package grpchealth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"storefront/pkg/logger"
)

const (
	KeepaliveTime    = 5 * time.Minute
	KeepaliveTimeout = 3 * time.Second
)

// Server reports SERVING for the overall service and for each named component
// until SetNotServing is called.
type Server struct {
	log        logger.Logger
	grpc       *grpc.Server
	health     *health.Server
	components []string
}

func New(log logger.Logger, components ...string) *Server {
	srv := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    KeepaliveTime,
			Timeout: KeepaliveTimeout,
		}),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s := &Server{
		log:        log.With(logger.NewField("component", "grpc-health")),
		grpc:       srv,
		health:     hs,
		components: components,
	}
	s.setAll(healthpb.HealthCheckResponse_SERVING)
	return s
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc health server starting", logger.NewField("addr", lis.Addr().String()))

	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc health serve: %w", err)
	}
	return nil
}

// SetNotServing flips every status so probes drain traffic before the listener closes.
func (s *Server) SetNotServing() {
	s.setAll(healthpb.HealthCheckResponse_NOT_SERVING)
}

// Stop waits for in-flight checks until ctx expires, then closes connections.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpc.Stop()
	}
	s.log.Info("grpc health server stopped")
}

func (s *Server) setAll(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	for _, c := range s.components {
		s.health.SetServingStatus(c, status)
	}
}
