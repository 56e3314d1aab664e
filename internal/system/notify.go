package system

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports lifecycle to systemd. Outside systemd (no NOTIFY_SOCKET)
// every call is a no-op.
type Notifier struct {
	logger logger
}

func NewNotifier(l logger) *Notifier { return &Notifier{logger: l} }

func (n *Notifier) send(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil && n.logger != nil {
		n.logger.Errorf("systemd", "notify %q: %v", state, err)
	}
}

func (n *Notifier) Ready()            { n.send(daemon.SdNotifyReady) }
func (n *Notifier) Status(msg string) { n.send("STATUS=" + msg) }
func (n *Notifier) Watchdog()         { n.send(daemon.SdNotifyWatchdog) }
func (n *Notifier) Stopping()         { n.send(daemon.SdNotifyStopping) }
