package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_Run_StdioMode_CancelledContext(t *testing.T) {
	server := newTestServer(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, server.Run(ctx))
}

func TestServer_Run_ServerMode_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = "server"
	cfg.Port = freePort(t)
	server := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(ctx) }()

	// Wait until the listener accepts connections
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.Address(), 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_Run_ServerMode_AddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig(t)
	cfg.Mode = "server"
	cfg.Port = l.Addr().(*net.TCPAddr).Port
	server := newTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to serve SSE")
}
