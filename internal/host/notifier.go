package host

import (
	"os"
	"runtime"
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// DesktopNotifier raises desktop notifications. Failures are logged.
type DesktopNotifier struct {
	Title  string
	Logger *zap.Logger
}

func (n DesktopNotifier) Notify(message string) {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if headless() {
		logger.Debug("no display; notification dropped", zap.String("message", message))
		return
	}
	if err := beeep.Notify(n.Title, message, ""); err != nil {
		logger.Warn("desktop notification failed", zap.Error(err))
	}
}

func headless() bool {
	return runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string) {
	if n.Logger == nil {
		return
	}
	n.Logger.Info("notification", zap.String("message", message))
}

// RecordingNotifier keeps every message and forwards it to Next when set.
type RecordingNotifier struct {
	Next Notifier

	mu       sync.Mutex
	messages []string
}

func (n *RecordingNotifier) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
	if n.Next != nil {
		n.Next.Notify(message)
	}
}

func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
