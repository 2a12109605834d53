package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveEndpoint_NoChecks(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestReadyEndpoint_GatedOnSetReady(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "service is not ready")

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Shutdown drains by flipping the gate back.
	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCheck_FailureThreshold(t *testing.T) {
	boom := errors.New("boom")
	c := newCheck("flaky", time.Second, func(context.Context) error { return boom })
	ctx := context.Background()

	// Below the threshold the check still reports healthy.
	c.run(ctx)
	c.run(ctx)
	assert.True(t, c.healthy.Load())

	c.run(ctx)
	assert.False(t, c.healthy.Load())
	msg, failed := c.failure()
	require.True(t, failed)
	assert.Equal(t, "boom", msg)
}

func TestCheck_RecoversAfterSuccess(t *testing.T) {
	var err error = errors.New("down")
	c := newCheck("db", time.Second, func(context.Context) error { return err })
	ctx := context.Background()

	for i := 0; i < defaultFailureThreshold; i++ {
		c.run(ctx)
	}
	require.False(t, c.healthy.Load())

	err = nil
	c.run(ctx)
	assert.True(t, c.healthy.Load())
	_, failed := c.failure()
	assert.False(t, failed)
}

func TestIsReady_FailingReadinessCheck(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("catalog", time.Second, func(context.Context) error {
		return errors.New("empty")
	})
	require.True(t, h.IsReady())

	for i := 0; i < defaultFailureThreshold; i++ {
		h.readiness[0].run(context.Background())
	}
	assert.False(t, h.IsReady())

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog")
}

func TestGoroutineCountCheck(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, GoroutineCountCheck(1_000_000)(ctx))

	err := GoroutineCountCheck(0)(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}

func TestStartAndStop(t *testing.T) {
	h := New()
	ran := make(chan struct{}, 1)
	h.AddLivenessCheck("ping", time.Second, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("check never ran")
	}

	h.Stop()
	// Stop twice is fine.
	h.Stop()
}
