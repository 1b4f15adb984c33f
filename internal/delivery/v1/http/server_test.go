package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/DRSN-tech/supply-registry/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPConfig() *cfg.HTTPConfig {
	return &cfg.HTTPConfig{
		Port:              "0",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: 500 * time.Millisecond,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
	}
}

func TestServer_StopIsGraceful(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	srv := NewServer(h, testHTTPConfig())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(lis) }()

	res, err := http.Get("http://" + lis.Addr().String() + "/api/v1/products/")
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	// после Stop Serve возвращает nil, а не http.ErrServerClosed
	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServer_StopForcesSlowRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := NewServer(slow, testHTTPConfig())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(lis) }()

	go func() {
		res, err := http.Get("http://" + lis.Addr().String() + "/")
		if err == nil {
			_ = res.Body.Close()
		}
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = srv.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
