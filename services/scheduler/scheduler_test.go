package schedulersvc

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core/notification"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

type memLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (l *memLogger) Debug(string, ...interface{}) {}
func (l *memLogger) Warn(string, ...interface{})  {}
func (l *memLogger) Fatal(string, ...interface{}) {}

func (l *memLogger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg+fmt.Sprint(args...))
}

func (l *memLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type failingPurger struct{}

func (failingPurger) Purge(context.Context, time.Duration) (int, error) {
	return 0, errors.New("db down")
}

func TestScheduler_AddPurge(t *testing.T) {
	now := time.Now().UTC()
	svc := notification.NewService(inmemdb.NewTable(notification.Resource, func(n notification.Notification) string { return n.ID },
		notification.Notification{ID: "1", Type: notification.TypeInfo, Title: "old read", Time: now.AddDate(0, 0, -40), Read: true},
		notification.Notification{ID: "2", Type: notification.TypeInfo, Title: "old unread", Time: now.AddDate(0, 0, -40)},
		notification.Notification{ID: "3", Type: notification.TypeInfo, Title: "recent read", Time: now, Read: true},
	), nil)

	logger := new(memLogger)
	s := New(logger)
	id, err := s.AddPurge("notifications", "@daily", svc, 30*24*time.Hour)
	require.NoError(t, err)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)

	entries[0].Job.Run()
	left, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.ElementsMatch(t, []string{"2", "3"}, []string{left[0].ID, left[1].ID})
	assert.Contains(t, logger.infos, "purged notificationsmap[count:1]")

	_, err = s.AddPurge("notifications", "every minute", svc, time.Hour)
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(new(memLogger))
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestPurgeJob_error(t *testing.T) {
	logger := new(memLogger)
	PurgeJob("notifications", failingPurger{}, time.Hour, logger)()
	assert.Equal(t, []string{"purging notifications"}, logger.errors)
	assert.Empty(t, logger.infos)
}
