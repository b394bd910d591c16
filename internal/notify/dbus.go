package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/godbus/dbus/v5"
)

const (
	dbusDest   = "org.freedesktop.Notifications"
	dbusPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusNotify = dbusDest + ".Notify"
)

// freedesktop urgency levels
const (
	urgencyLow      byte = 0
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// freedesktop expire_timeout values
const (
	expireDefault int32 = -1
	expireNever   int32 = 0
)

// busObject is the subset of dbus.BusObject used to send notifications
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// busConnector opens the session bus and returns the notifications object
type busConnector func() (busObject, io.Closer, error)

// DBusNotifier talks to the desktop notification daemon over the session bus.
// The connection is opened on first use and reused for the lifetime of the
// notifier; if opening fails the notifier stays silent.
type DBusNotifier struct {
	appName string
	iconDir string
	timeout time.Duration
	logger  log.Logger
	connect busConnector

	once    sync.Once
	obj     busObject
	closer  io.Closer
	initErr error
}

// NewDBusNotifier creates a native notification backend
func NewDBusNotifier(opts Options, logger log.Logger) *DBusNotifier {
	timeout := timeoutOrDefault(opts.Timeout)
	return &DBusNotifier{
		appName: opts.AppName,
		iconDir: opts.IconDir,
		timeout: timeout,
		logger:  loggerOrDefault(logger),
		connect: func() (busObject, io.Closer, error) {
			conn, err := connectSessionBus(timeout)
			if err != nil {
				return nil, nil, err
			}
			return conn.Object(dbusDest, dbusPath), conn, nil
		},
	}
}

// connectSessionBus opens a private session bus connection. The auth
// handshake must complete within timeout; the connection stays open after.
func connectSessionBus(timeout time.Duration) (*dbus.Conn, error) {
	ctx, cancel := context.WithCancel(context.Background())
	// godbus closes the transport once the connection context is done
	timer := time.AfterFunc(timeout, cancel)

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if !timer.Stop() && err == nil {
		err = fmt.Errorf("handshake took longer than %s", timeout)
	}
	if err != nil {
		cancel()
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn, nil
}

// Name returns "dbus"
func (d *DBusNotifier) Name() string { return BackendDBus }

// init opens the bus connection once. Later calls return the first result.
func (d *DBusNotifier) init() error {
	d.once.Do(func() {
		d.obj, d.closer, d.initErr = d.connect()
	})
	return d.initErr
}

// Notify sends the notification. Priority maps to the urgency hint and
// Sticky disables expiry.
func (d *DBusNotifier) Notify(n Notification) {
	if err := d.init(); err != nil {
		d.logger.Warnf("[notify] dbus: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	call := d.obj.CallWithContext(ctx, dbusNotify, 0,
		d.appName,
		uint32(0),
		iconPath(d.iconDir, n.Icon),
		n.Title,
		n.Message,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgencyLevel(n.Priority))},
		expireTimeout(n.Sticky),
	)
	if call.Err != nil {
		d.logger.Warnf("[notify] dbus: %v", call.Err)
		return
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		d.logger.Debugf("[notify] dbus: notification id %d", id)
	}
}

// Close releases the bus connection if one was opened
func (d *DBusNotifier) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

func urgencyLevel(priority int) byte {
	switch {
	case priority < 0:
		return urgencyLow
	case priority > 0:
		return urgencyCritical
	default:
		return urgencyNormal
	}
}

func expireTimeout(sticky bool) int32 {
	if sticky {
		return expireNever
	}
	return expireDefault
}

// dbusServiceAvailable reports whether a notification daemon owns its name
// on the session bus.
func dbusServiceAvailable(timeout time.Duration) bool {
	timeout = timeoutOrDefault(timeout)
	conn, err := connectSessionBus(timeout)
	if err != nil {
		return false
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var owned bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, dbusDest).Store(&owned)
	return err == nil && owned
}
