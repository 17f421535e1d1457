package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corporate-checkout/internal/config"
	"corporate-checkout/internal/logx"
	testlog "corporate-checkout/internal/testutil"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	logs := testlog.New()
	srv := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, logs.Logger(), time.Second, srv, nil) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", srv.Addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	require.True(t, logs.Has("info", "service-checkout listening"))
	require.True(t, logs.Has("info", "shutting down service-checkout"))
}

func TestServe_ListenErrorStopsOthers(t *testing.T) {
	t.Parallel()

	ok := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	bad := &http.Server{Addr: "127.0.0.1:-1", ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), logx.Nop(), time.Second, ok, bad) }()

	select {
	case err := <-done:
		require.Error(t, err)
		require.Contains(t, err.Error(), "listen 127.0.0.1:-1")
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after listen error")
	}
}

func TestRun_InvokesWithContainer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	_, port, err := net.SplitHostPort(freeAddr(t))
	require.NoError(t, err)
	cfg.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	c, err := NewContainerBuilder().
		WithConfigLoader(func() (*config.Config, error) { return cfg, nil }).
		build(ctx)
	require.NoError(t, err)

	cancel()
	require.NoError(t, run(c))
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := newLoggerTo(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", logx.String("k", "v"))
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)

	_, err = NewLogger("nope")
	require.Error(t, err)
}
