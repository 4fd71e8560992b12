package internalgrpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/lomoval/strikeboard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, m *metrics.Metrics) (*Server, healthpb.HealthClient) {
	t.Helper()
	lsn := bufconn.Listen(1024 * 1024)
	s := NewServer(Config{}, m)
	go func() {
		_ = s.Serve(lsn)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lsn.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		_ = s.Stop(context.Background())
	})
	return s, healthpb.NewHealthClient(conn)
}

func TestHealth(t *testing.T) {
	m := metrics.New("grpc")
	s, client := startServer(t, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.GetStatus()
	}

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(""))

	s.SetServing(true)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(""))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(ServiceName))

	_, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})
	require.Equal(t, codes.NotFound, status.Code(err))

	method := "/grpc.health.v1.Health/Check"
	require.Equal(t, 3.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues(method, "OK")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues(method, "NotFound")))
}
