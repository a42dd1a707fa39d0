package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("nonsense"))
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	l, err := NewWithConfig(Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     path,
		ServiceName:    "user-graph-service",
		ServiceVersion: "test",
		Environment:    "test",
	})
	require.NoError(t, err)
	l.Info("hello")
	assert.FileExists(t, path)
}

func TestWithContext_AddsKnownFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-9")
	WithContext(ctx, base).Info("msg")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetUserID(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	require.NoError(t, err)
	assert.NotEmpty(t, seen)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "abc"))
	_, err = interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "abc", seen)
}
