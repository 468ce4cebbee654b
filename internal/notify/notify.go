package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"
)

var notifyLogger = log.New(log.Writer(), "[NOTIFY] ", log.LstdFlags)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = "org.freedesktop.Notifications.Notify"

	// Transient notices self-expire; nothing here is worth a
	// notification-center entry.
	expireMs = 4000
)

// Sender posts transient desktop notifications over the session bus.
// Failures degrade to log lines; a launcher must never die because the
// notification daemon is absent.
type Sender struct {
	appName string

	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
}

func NewSender(appName string) *Sender {
	return &Sender{appName: appName}
}

// Notify shows (or replaces) the transient failure notice.
func (s *Sender) Notify(summary, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			notifyLogger.Printf("session bus unavailable, dropping notice %q: %v", summary, err)
			return
		}
		s.conn = conn
	}

	obj := s.conn.Object(notificationsService, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notifyMethod, 0,
		s.appName,
		s.lastID, // replaces-id, coalesces repeated failures
		"",       // icon
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"transient": dbus.MakeVariant(true),
			"urgency":   dbus.MakeVariant(byte(1)),
		},
		int32(expireMs),
	)
	if call.Err != nil {
		notifyLogger.Printf("notify failed: %v", call.Err)
		return
	}
	if err := call.Store(&s.lastID); err != nil {
		notifyLogger.Printf("failed to read notification id: %v", err)
	}
}

// Close drops the bus connection.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close session bus: %w", err)
	}
	return nil
}
