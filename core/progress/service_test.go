package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

func TestRecord_derive(t *testing.T) {
	tests := []struct {
		name         string
		rec          Record
		wantProgress float64
		wantStatus   string
	}{
		{name: "from lessons", rec: Record{CompletedLessons: 3, TotalLessons: 12}, wantProgress: 25, wantStatus: StatusInProgress},
		{name: "rounded", rec: Record{CompletedLessons: 1, TotalLessons: 3}, wantProgress: 33.33, wantStatus: StatusInProgress},
		{name: "all lessons", rec: Record{CompletedLessons: 12, TotalLessons: 12}, wantProgress: 100, wantStatus: StatusCompleted},
		{name: "more lessons than the course has", rec: Record{CompletedLessons: 15, TotalLessons: 12}, wantProgress: 100, wantStatus: StatusCompleted},
		{name: "no lessons keeps progress", rec: Record{Progress: 40}, wantProgress: 40, wantStatus: StatusInProgress},
		{name: "not started", rec: Record{TotalLessons: 10}, wantProgress: 0, wantStatus: StatusNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.derive()
			assert.Equal(t, tt.wantProgress, tt.rec.Progress)
			assert.Equal(t, tt.wantStatus, tt.rec.Status)
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(inmemdb.NewTable(Resource, func(r Record) string { return r.ID }))

	for _, nr := range []NewRecord{
		{StudentName: "Jane", Email: "jane@akademi.test", Course: "Go 101", CompletedLessons: 10, TotalLessons: 10, Score: 90},
		{StudentName: "Jane", Email: "jane@akademi.test", Course: "Rust", CompletedLessons: 2, TotalLessons: 8, Score: 70},
		{StudentName: "John", Course: "Go 101", TotalLessons: 10},
	} {
		_, err := svc.Create(ctx, nr)
		require.NoError(t, err)
	}

	res, err := svc.Query(ctx, listing.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Students:        2,
		AverageProgress: 41.67,
		Completed:       1,
		InProgress:      1,
		NotStarted:      1,
		AverageScore:    53.33,
	}, res.Summary)

	res, err = svc.Query(ctx, listing.Criteria{Filters: map[string][]string{"status": {StatusNotStarted}}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	john := res.Results[0]

	done := 5
	john, err = svc.Update(ctx, john.ID, UpdateRecord{CompletedLessons: &done})
	require.NoError(t, err)
	assert.Equal(t, 50.0, john.Progress)
	assert.Equal(t, StatusInProgress, john.Status)
}
