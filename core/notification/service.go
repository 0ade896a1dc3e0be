// Package notification manages the admin notification feed.
package notification

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const Resource = "notification"

// ErrNothingToUndo is returned by Undo when no deletion can be undone.
var ErrNothingToUndo = errors.New("nothing to undo")

type Repository = core.Repository[Notification]

var Schema = listing.Schema[Notification]{
	Resource: "notifications",
	Search: []func(Notification) string{
		func(n Notification) string { return n.Title },
		func(n Notification) string { return n.Message },
	},
	Filters: map[string]func(Notification) string{
		"type": func(n Notification) string { return n.Type },
		"read": func(n Notification) string { return strconv.FormatBool(n.Read) },
	},
	Date: func(n Notification) time.Time { return n.Time },
	Sorters: map[string]listing.Comparator[Notification]{
		"type":  listing.Strings(func(n Notification) string { return n.Type }),
		"title": listing.Strings(func(n Notification) string { return n.Title }),
		"time":  listing.Times(func(n Notification) time.Time { return n.Time }),
		"read":  listing.Bools(func(n Notification) bool { return n.Read }),
	},
	DefaultOrdering: core.ParseOrdering("-time"),
	PageSize:        10,
}

func Summarize(notifications []Notification) Summary {
	byType := make(map[string]int, len(Types))
	for _, typ := range Types {
		byType[typ] = 0
	}
	var read int
	for _, n := range notifications {
		byType[n.Type]++
		if n.Read {
			read++
		}
	}
	return Summary{
		Total:  len(notifications),
		Unread: len(notifications) - read,
		Read:   read,
		ByType: byType,
	}
}

type Service struct {
	*records.Service[Notification, Summary]
	publisher Publisher

	mu      sync.Mutex
	deleted []Notification // last deleted batch, restored by Undo
}

func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{
		Service: &records.Service[Notification, Summary]{
			Repo:      repo,
			Schema:    Schema,
			Summarize: Summarize,
			CSV:       csvCodec,
		},
		publisher: publisher,
	}
}

func (svc *Service) publish(action string, notifications []Notification, ids ...string) {
	if svc.publisher == nil || (len(notifications) == 0 && len(ids) == 0) {
		return
	}
	svc.publisher.Publish(Event{Action: action, Notifications: notifications, IDs: ids})
}

func (nn NewNotification) build() Notification {
	now := core.Now()
	return Notification{
		ID:        core.NewID(),
		Type:      nn.Type,
		Title:     nn.Title,
		Message:   nn.Message,
		Time:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (svc *Service) Create(ctx context.Context, nn NewNotification) (Notification, error) {
	if err := nn.Validate(); err != nil {
		return Notification{}, err
	}
	n, err := svc.Repo.Create(ctx, nn.build())
	if err != nil {
		return Notification{}, err
	}
	svc.publish(ActionCreated, []Notification{n})
	return n, nil
}

func (svc *Service) Update(ctx context.Context, id string, un UpdateNotification) (Notification, error) {
	if err := un.Validate(); err != nil {
		return Notification{}, err
	}
	n, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	un.apply(&n)
	n.UpdatedAt = core.Now()
	if n, err = svc.Repo.Update(ctx, n); err != nil {
		return Notification{}, err
	}
	svc.publish(ActionUpdated, []Notification{n})
	return n, nil
}

// MarkRead marks the selected notifications as read.
func (svc *Service) MarkRead(ctx context.Context, ids ...string) ([]Notification, error) {
	now := core.Now()
	updated, err := svc.UpdateMany(ctx, ids, func(n *Notification) {
		n.Read = true
		n.UpdatedAt = now
	})
	if err != nil {
		return nil, errors.Wrap(err, "marking notifications as read")
	}
	svc.publish(ActionUpdated, updated)
	return updated, nil
}

// MarkAllRead marks every unread notification as read and returns how many were.
func (svc *Service) MarkAllRead(ctx context.Context) (int, error) {
	all, err := svc.All(ctx)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(all))
	for _, n := range all {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	updated, err := svc.MarkRead(ctx, ids...)
	return len(updated), err
}

// Delete deletes the selected notifications. The deleted batch replaces the one Undo would restore.
func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	ids = records.UniqueIDs(ids)
	batch := make([]Notification, 0, len(ids))
	for _, id := range ids {
		n, err := svc.Repo.Get(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return 0, errors.Wrap(err, "getting notification")
		}
		batch = append(batch, n)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	deletedIDs := make([]string, 0, len(batch))
	for _, n := range batch {
		deletedIDs = append(deletedIDs, n.ID)
	}
	count, err := svc.Repo.Delete(ctx, deletedIDs...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting notifications")
	}
	svc.deleted = batch
	svc.publish(ActionDeleted, nil, deletedIDs...)
	return count, nil
}

// Undo restores the last deleted batch. It can only be done once per deletion.
func (svc *Service) Undo(ctx context.Context) ([]Notification, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if len(svc.deleted) == 0 {
		return nil, ErrNothingToUndo
	}
	restored := make([]Notification, 0, len(svc.deleted))
	// Create prepends: walk the batch backwards to keep its order
	for i := len(svc.deleted) - 1; i >= 0; i-- {
		n, err := svc.Repo.Create(ctx, svc.deleted[i])
		if err != nil {
			return nil, errors.Wrap(err, "restoring notification")
		}
		restored = append([]Notification{n}, restored...)
	}
	svc.deleted = nil
	svc.publish(ActionRestored, restored)
	return restored, nil
}

// Purge deletes the read notifications older than retention. Purged notifications cannot be restored.
func (svc *Service) Purge(ctx context.Context, retention time.Duration) (int, error) {
	all, err := svc.All(ctx)
	if err != nil {
		return 0, err
	}
	limit := core.Now().Add(-retention)
	ids := make([]string, 0)
	for _, n := range all {
		if n.Read && n.Time.Before(limit) {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	count, err := svc.Repo.Delete(ctx, ids...)
	if err != nil {
		return 0, errors.Wrap(err, "purging notifications")
	}
	svc.publish(ActionDeleted, nil, ids...)
	return count, nil
}

var csvCodec = records.CSVCodec[Notification]{
	Header: []string{"id", "type", "title", "message", "time", "read"},
	Encode: func(n Notification) []string {
		return []string{n.ID, n.Type, n.Title, n.Message, n.Time.Format(time.RFC3339), strconv.FormatBool(n.Read)}
	},
	Decode: func(r records.Row) (Notification, error) {
		var err error
		nn := NewNotification{
			Type:    r.String("type", TypeInfo),
			Title:   r.String("title", ""),
			Message: r.String("message", ""),
		}
		if err = nn.Validate(); err != nil {
			return Notification{}, err
		}
		n := nn.build()
		if n.Time, err = r.Time("time", n.Time); err != nil {
			return Notification{}, err
		}
		if n.Read, err = r.Bool("read", false); err != nil {
			return Notification{}, err
		}
		return n, nil
	},
}
