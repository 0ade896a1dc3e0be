package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		actions = append(actions, evt.Action)
	}
	return actions
}

func fixtures() []Notification {
	now := time.Now().UTC()
	return []Notification{
		{ID: "1", Type: TypeInfo, Title: "New enrollment", Message: "Jane enrolled in Go 101", Time: now},
		{ID: "2", Type: TypeAlert, Title: "Payment failed", Message: "Card declined", Time: now.Add(-time.Hour)},
		{ID: "3", Type: TypeSuccess, Title: "Course published", Message: "Rust basics is live", Time: now.AddDate(0, 0, -40), Read: true},
		{ID: "4", Type: TypeWarning, Title: "Storage almost full", Message: "90% used", Time: now.AddDate(0, 0, -2), Read: true},
	}
}

func newService(pub Publisher) *Service {
	return NewService(inmemdb.NewTable(Resource, func(n Notification) string { return n.ID }, fixtures()...), pub)
}

func ids(notifications []Notification) []string {
	res := make([]string, 0, len(notifications))
	for _, n := range notifications {
		res = append(res, n.ID)
	}
	return res
}

func TestService_Query(t *testing.T) {
	svc := newService(nil)
	res, err := svc.Query(context.Background(), listing.Criteria{Filters: map[string][]string{"read": {"false"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(res.Results))
	assert.Equal(t, Summary{
		Total:  2,
		Unread: 2,
		ByType: map[string]int{TypeInfo: 1, TypeAlert: 1, TypeSuccess: 0, TypeWarning: 0},
	}, res.Summary)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	rec := new(recorder)
	svc := newService(rec)

	updated, err := svc.MarkRead(ctx, "2")
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.True(t, updated[0].Read)

	n, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := svc.Query(ctx, listing.Criteria{})
	require.NoError(t, err)
	assert.Zero(t, res.Summary.Unread)
	assert.Equal(t, []string{ActionUpdated, ActionUpdated}, rec.actions())
}

func TestService_DeleteUndo(t *testing.T) {
	ctx := context.Background()
	rec := new(recorder)
	svc := newService(rec)

	_, err := svc.Undo(ctx)
	assert.ErrorIs(t, err, ErrNothingToUndo)

	n, err := svc.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a new deletion replaces the batch to restore
	n, err = svc.Delete(ctx, "2", "4", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := svc.All(ctx)
	assert.Equal(t, []string{"3"}, ids(all))

	restored, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(restored))

	all, _ = svc.All(ctx)
	assert.Equal(t, []string{"2", "4", "3"}, ids(all))

	_, err = svc.Undo(ctx)
	assert.ErrorIs(t, err, ErrNothingToUndo, "undo works once")

	_, err = svc.Get(ctx, "1")
	assert.True(t, core.IsNotFound(err))

	assert.Equal(t, []string{ActionDeleted, ActionDeleted, ActionRestored}, rec.actions())
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	rec := new(recorder)
	svc := newService(rec)

	n, err := svc.Create(ctx, NewNotification{Title: " Backup done "})
	require.NoError(t, err)
	assert.Equal(t, TypeInfo, n.Type)
	assert.Equal(t, "Backup done", n.Title)
	assert.False(t, n.Read)

	_, err = svc.Create(ctx, NewNotification{Title: "x", Type: "spam"})
	assert.Error(t, err)

	require.Len(t, rec.events, 1)
	assert.Equal(t, ActionCreated, rec.events[0].Action)
	assert.Equal(t, n, rec.events[0].Notifications[0])
}

func TestService_Purge(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)

	n, err := svc.Purge(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only read notifications older than the retention")

	all, _ := svc.All(ctx)
	assert.Equal(t, []string{"1", "2", "4"}, ids(all))
}
