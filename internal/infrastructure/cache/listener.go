package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PermissionsChannel is the NOTIFY channel raised by the permission_records trigger.
// The payload is the id of the profile whose records changed.
const PermissionsChannel = "permission_records_changed"

const pingInterval = 90 * time.Second

// ChangeHandler reacts to permission changes made by other instances
type ChangeHandler interface {
	// ProfileChanged is called with the profile id carried by a notification
	ProfileChanged(ctx context.Context, profileID string)

	// Resync is called after the connection was re-established; notifications may have been lost
	Resync(ctx context.Context)
}

// ChangeListener keeps every instance's permission cache coherent through
// PostgreSQL LISTEN/NOTIFY.
type ChangeListener struct {
	connStr string
	handler ChangeHandler
	logger  logrus.FieldLogger

	mu       sync.Mutex
	listener *pq.Listener
	stopCh   chan struct{}
	done     chan struct{}
	stopped  bool
}

// NewChangeListener creates a listener. connStr is the PostgreSQL connection string.
func NewChangeListener(connStr string, handler ChangeHandler, logger logrus.FieldLogger) *ChangeListener {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ChangeListener{
		connStr: connStr,
		handler: handler,
		logger:  logger.WithField("component", "permission_listener"),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start opens the LISTEN connection and dispatches notifications until Stop
func (l *ChangeListener) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.WithError(err).WithField("event", ev).Warn("listener connection problem")
		}
	}

	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, reportProblem)
	if err := listener.Listen(PermissionsChannel); err != nil {
		listener.Close()
		return fmt.Errorf("failed to listen on %s: %w", PermissionsChannel, err)
	}

	l.mu.Lock()
	l.listener = listener
	l.mu.Unlock()

	go l.run(ctx, listener.Notify, listener.Ping)
	return nil
}

// Stop ends dispatching and closes the connection
func (l *ChangeListener) Stop() error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	close(l.stopCh)
	listener := l.listener
	l.mu.Unlock()

	if listener == nil {
		return nil
	}
	<-l.done
	return listener.Close()
}

func (l *ChangeListener) run(ctx context.Context, notify <-chan *pq.Notification, ping func() error) {
	defer close(l.done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ctx.Done():
			return
		case n, ok := <-notify:
			if !ok {
				return
			}
			l.dispatch(ctx, n)
		case <-ticker.C:
			go func() {
				if err := ping(); err != nil {
					l.logger.WithError(err).Warn("listener ping failed")
				}
			}()
		}
	}
}

func (l *ChangeListener) dispatch(ctx context.Context, n *pq.Notification) {
	// pq sends nil after a reconnect
	if n == nil {
		l.logger.Info("listener reconnected, resyncing permissions")
		l.handler.Resync(ctx)
		return
	}
	if n.Extra == "" {
		return
	}
	l.logger.WithField("profile_id", n.Extra).Debug("permission change received")
	l.handler.ProfileChanged(ctx, n.Extra)
}
