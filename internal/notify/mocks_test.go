package notify

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

// runCall records a single commandRunner invocation
type runCall struct {
	Name     string
	Args     []string
	Deadline time.Time
}

// mockRunner records commands instead of executing them
type mockRunner struct {
	mu    sync.Mutex
	calls []runCall
	err   error
	// wait blocks Run until the context is done
	wait bool
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.mu.Lock()
	deadline, _ := ctx.Deadline()
	m.calls = append(m.calls, runCall{Name: name, Args: args, Deadline: deadline})
	m.mu.Unlock()

	if m.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

func (m *mockRunner) last() runCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// busCall records a single Notify call on the session bus
type busCall struct {
	Method string
	Args   []interface{}
}

// fakeBus stands in for the notification daemon
type fakeBus struct {
	calls []busCall
	err   error
	id    uint32
}

func (b *fakeBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	b.calls = append(b.calls, busCall{Method: method, Args: args})
	if b.err != nil {
		return &dbus.Call{Err: b.err}
	}
	return &dbus.Call{Body: []interface{}{b.id}}
}

type nopCloser struct{ closed bool }

func (c *nopCloser) Close() error {
	c.closed = true
	return nil
}

// connectorFor returns a busConnector that hands out bus and counts calls
func connectorFor(bus *fakeBus, err error, count *int) busConnector {
	return func() (busObject, io.Closer, error) {
		*count++
		if err != nil {
			return nil, nil, err
		}
		return bus, &nopCloser{}, nil
	}
}

// testEnv builds an Environment with the given tools on PATH
func testEnv(goos string, tools []string, vars map[string]string, dbusUp bool) Environment {
	return Environment{
		GOOS: goos,
		LookPath: func(file string) (string, error) {
			for _, t := range tools {
				if t == file {
					return "/usr/bin/" + file, nil
				}
			}
			return "", errors.New("not found")
		},
		Getenv:        func(key string) string { return vars[key] },
		IsInteractive: func() bool { return true },
		DBusAvailable: func() bool { return dbusUp },
	}
}

func testLogger() log.Logger {
	return log.NewLogger()
}

var errMockRun = errors.New("mock run error")

// silentSessionBus points DBUS_SESSION_BUS_ADDRESS at a unix socket that
// accepts connections and never answers the auth handshake. Callers must not
// use t.Parallel().
func silentSessionBus(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix socket session bus")
	}

	// unix socket paths are limited to ~100 bytes, keep it short
	dir, err := os.MkdirTemp("", "gtn")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	sock := filepath.Join(dir, "bus")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})

	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path="+sock)
}

// finishesWithin runs fn and reports whether it returned before limit
func finishesWithin(limit time.Duration, fn func()) bool {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(limit):
		return false
	}
}
