package notify

import (
	"context"
	"sync"

	"family-finance/internal/models"

	"go.uber.org/zap"
)

// Logger writes every notification to a zap logger.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("notify")}
}

func (l *Logger) Notify(_ context.Context, n models.Notification) {
	fields := []zap.Field{
		zap.String("entity", n.Entity),
		zap.String("op", n.Operation),
		zap.String("record_id", n.RecordID.String()),
		zap.Bool("rolled_back", n.RolledBack),
	}
	if n.Error != "" {
		fields = append(fields, zap.String("error", n.Error))
	}
	if n.Level == models.LevelError {
		l.logger.Warn(n.Message, fields...)
		return
	}
	l.logger.Info(n.Message, fields...)
}

// Inbox keeps the latest notifications for one user until they are read.
// When full, the oldest notification is dropped.
type Inbox struct {
	mu      sync.Mutex
	items   []models.Notification
	size    int
	dropped int
}

func NewInbox(size int) *Inbox {
	if size < 1 {
		size = 1
	}
	return &Inbox{size: size}
}

func (i *Inbox) Notify(_ context.Context, n models.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.items) == i.size {
		i.items = i.items[1:]
		i.dropped++
	}
	i.items = append(i.items, n)
}

// Drain returns the pending notifications oldest first and empties the inbox.
func (i *Inbox) Drain() []models.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	return out
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.items)
}

// Dropped counts notifications discarded because the inbox was full.
func (i *Inbox) Dropped() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.dropped
}

type notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Multi fans a notification out to several notifiers.
type Multi []notifier

func (m Multi) Notify(ctx context.Context, n models.Notification) {
	for _, target := range m {
		target.Notify(ctx, n)
	}
}
