package internalgrpc

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

func loggingHandler(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	entry := log.WithField("method", info.FullMethod).WithField("latency", time.Since(start))
	if p, ok := peer.FromContext(ctx); ok {
		entry = entry.WithField("ip", p.Addr.String())
	}
	if err != nil {
		entry.WithError(err).Warn("grpc request failed")
		return resp, err
	}
	entry.Info("grpc request processed")
	return resp, nil
}
