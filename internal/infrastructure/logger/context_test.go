package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextRoundTrip(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextDefaultsToNop(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// Must not panic
	logger.Info("ignored")
}

func TestWithTenantID(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithTenantID(context.Background(), logger, "tenant-42")
	assert.Equal(t, "tenant-42", TenantID(ctx))

	enriched.Info("hello")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "tenant-42", entries[0].ContextMap()["tenant_id"])
}

func TestTenantIDMissing(t *testing.T) {
	assert.Empty(t, TenantID(context.Background()))
}

func TestLEnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger)
	ctx, _ = WithTenantID(ctx, logger, "tenant-7")

	L(ctx).Info("scoped")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "tenant-7", entries[0].ContextMap()["tenant_id"])
}

func TestWithTraceContextNoSpan(t *testing.T) {
	logger := zap.NewNop()
	assert.Same(t, logger, WithTraceContext(context.Background(), logger))
}
