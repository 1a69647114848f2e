package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

// TimelineServiceName is reported through the health service for the
// timeline simulator. The empty name covers the whole server.
const TimelineServiceName = "impact.Timeline"

type Server struct {
	health     *health.Server
	grpcServer *grpc.Server
}

func NewServer() *Server {
	s := &Server{
		health: health.NewServer(),
	}
	s.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(TimelineServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	slog.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

// MarkTimelineDown reports the timeline as not serving, e.g. once its
// countdown has expired or it was cancelled.
func (s *Server) MarkTimelineDown() {
	s.health.SetServingStatus(TimelineServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Publish lets the server follow timeline snapshots as a
// timeline.Publisher.
func (s *Server) Publish(st models.TimelineState) {
	if st.Cancelled || st.CountdownPhase == models.CountdownExpired {
		s.MarkTimelineDown()
	}
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("grpc call", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
