package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ashureev/bibleai/internal/store"
)

// GRPCHealth serves grpc.health.v1.Health. The overall status follows
// Repository.Ping, polled on an interval.
type GRPCHealth struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	repo       store.Repository
	interval   time.Duration
}

// NewGRPCHealth listens on addr and registers the health service.
func NewGRPCHealth(addr string, repo store.Repository) (*GRPCHealth, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &GRPCHealth{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		repo:       repo,
		interval:   10 * time.Second,
	}, nil
}

// Addr returns the listener address.
func (g *GRPCHealth) Addr() string {
	return g.listener.Addr().String()
}

// Serve runs until ctx is cancelled, then stops gracefully.
func (g *GRPCHealth) Serve(ctx context.Context) error {
	g.check(ctx)
	go g.poll(ctx)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- g.grpcServer.Serve(g.listener)
	}()

	select {
	case <-ctx.Done():
		g.health.Shutdown()
		g.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	case err := <-serveErr:
		return err
	}
}

func (g *GRPCHealth) poll(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.check(ctx)
		}
	}
}

func (g *GRPCHealth) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := g.repo.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("gRPC health: storage unreachable", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus("", status)
}
