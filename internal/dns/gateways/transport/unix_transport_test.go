package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nssdoh/nss-doh/internal/dns/common/clock"
	"github.com/nssdoh/nss-doh/internal/dns/common/log"
)

// captureHandler records accepted connections and reads what arrives on them.
type captureHandler struct {
	mu    sync.Mutex
	conns int
	data  []byte
	done  chan struct{}
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{done: make(chan struct{}, 16)}
}

func (h *captureHandler) HandleConn(_ context.Context, conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, 1024)
	n, _ := conn.Read(buf)

	h.mu.Lock()
	h.conns++
	h.data = append(h.data, buf[:n]...)
	h.mu.Unlock()
	h.done <- struct{}{}
}

func socketPath(t *testing.T) string {
	t.Helper()
	// Socket paths have a low length limit, so avoid long tempdir names.
	return filepath.Join(t.TempDir(), "s.sock")
}

func newTestTransport(path string) *UnixTransport {
	return NewUnixTransport(path, 2*time.Second, clock.RealClock{}, log.NewNoopLogger())
}

func TestUnixTransport_StartStop(t *testing.T) {
	path := socketPath(t)
	tr := newTestTransport(path)

	require.NoError(t, tr.Start(context.Background(), newCaptureHandler()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o666), info.Mode().Perm())
	assert.Equal(t, path, tr.Address())

	require.NoError(t, tr.Stop())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "socket file must be removed on stop")
}

func TestUnixTransport_DoubleStartFails(t *testing.T) {
	path := socketPath(t)
	tr := newTestTransport(path)

	require.NoError(t, tr.Start(context.Background(), newCaptureHandler()))
	defer func() {
		require.NoError(t, tr.Stop())
	}()

	assert.Error(t, tr.Start(context.Background(), newCaptureHandler()))
}

func TestUnixTransport_StopWithoutStart(t *testing.T) {
	tr := newTestTransport(socketPath(t))
	assert.NoError(t, tr.Stop())
}

func TestUnixTransport_ReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)

	// Simulate an unclean shutdown leaving a file behind.
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	tr := newTestTransport(path)
	require.NoError(t, tr.Start(context.Background(), newCaptureHandler()))
	defer func() {
		require.NoError(t, tr.Stop())
	}()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func TestUnixTransport_DispatchesConnections(t *testing.T) {
	path := socketPath(t)
	handler := newCaptureHandler()
	tr := newTestTransport(path)

	require.NoError(t, tr.Start(context.Background(), handler))
	defer func() {
		require.NoError(t, tr.Stop())
	}()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	_, err = conn.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	select {
	case <-handler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, 1, handler.conns)
	assert.Equal(t, []byte("hello"), handler.data)
}

func TestUnixTransport_EachConnectionGetsASession(t *testing.T) {
	path := socketPath(t)
	handler := newCaptureHandler()
	tr := newTestTransport(path)

	require.NoError(t, tr.Start(context.Background(), handler))
	defer func() {
		require.NoError(t, tr.Stop())
	}()

	const n = 5
	for i := 0; i < n; i++ {
		conn, err := net.Dial("unix", path)
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	}

	for i := 0; i < n; i++ {
		select {
		case <-handler.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler invoked %d times, want %d", i, n)
		}
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, n, handler.conns)
}

func TestUnixTransport_AppliesConnectionDeadline(t *testing.T) {
	path := socketPath(t)

	// Handler that measures how long a read on an idle connection survives.
	type result struct {
		err     error
		elapsed time.Duration
	}
	results := make(chan result, 1)
	handler := connFunc(func(_ context.Context, conn net.Conn) {
		defer conn.Close()
		start := time.Now()
		_, err := conn.Read(make([]byte, 1))
		results <- result{err: err, elapsed: time.Since(start)}
	})

	tr := NewUnixTransport(path, 100*time.Millisecond, clock.RealClock{}, log.NewNoopLogger())
	require.NoError(t, tr.Start(context.Background(), handler))
	defer func() {
		require.NoError(t, tr.Stop())
	}()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case res := <-results:
		require.Error(t, res.err)
		nerr, ok := res.err.(net.Error)
		require.True(t, ok, "expected a net.Error, got %T", res.err)
		assert.True(t, nerr.Timeout(), "idle read must fail with a timeout")
		assert.Less(t, res.elapsed, 2*time.Second)
	case <-time.After(5 * time.Second):
		t.Fatal("idle connection was never timed out")
	}
}

// connFunc adapts a function to the ConnectionHandler interface.
type connFunc func(ctx context.Context, conn net.Conn)

func (f connFunc) HandleConn(ctx context.Context, conn net.Conn) {
	f(ctx, conn)
}
