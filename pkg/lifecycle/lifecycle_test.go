package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ggrpc "google.golang.org/grpc"
)

type stubService struct {
	startErr    error
	startCalled atomic.Bool
	stopCalled  atomic.Bool
}

func (s *stubService) Start(_ context.Context) error {
	s.startCalled.Store(true)

	return s.startErr
}

func (s *stubService) Stop(_ context.Context) error {
	s.stopCalled.Store(true)

	return nil
}

func TestRunServerRequiresService(t *testing.T) {
	err := RunServer(context.Background(), &ServerOptions{ListenAddr: "127.0.0.1:0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errServiceRequired)

	err = RunServer(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errServiceRequired)
}

func TestRunServerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &stubService{}
	done := make(chan error, 1)

	go func() {
		done <- RunServer(ctx, &ServerOptions{
			ListenAddr:        "127.0.0.1:0",
			ServiceName:       "test-service",
			Service:           svc,
			EnableHealthCheck: true,
		})
	}()

	// Give the server a moment to come up before canceling.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not shut down after context cancellation")
	}

	assert.True(t, svc.startCalled.Load())
	assert.True(t, svc.stopCalled.Load())
}

func TestRunServerReturnsServiceError(t *testing.T) {
	errBoom := errors.New("boom")
	svc := &stubService{startErr: errBoom}

	done := make(chan error, 1)

	go func() {
		done <- RunServer(context.Background(), &ServerOptions{
			ListenAddr:  "127.0.0.1:0",
			ServiceName: "test-service",
			Service:     svc,
		})
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not return after service failure")
	}

	assert.True(t, svc.stopCalled.Load())
}

func TestRunServerRegistrarFailure(t *testing.T) {
	errRegister := errors.New("register failed")

	err := RunServer(context.Background(), &ServerOptions{
		ListenAddr:  "127.0.0.1:0",
		ServiceName: "test-service",
		Service:     &stubService{},
		RegisterGRPCServices: []GRPCServiceRegistrar{
			func(*ggrpc.Server) error { return errRegister },
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errRegister)
}
