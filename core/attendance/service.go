// Package attendance tracks students' presence to course sessions.
package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const Resource = "attendance record"

type Repository = core.Repository[Record]

var Schema = listing.Schema[Record]{
	Resource: "attendance",
	Search: []func(Record) string{
		func(r Record) string { return r.StudentName },
		func(r Record) string { return r.Course },
	},
	Filters: map[string]func(Record) string{
		"status": func(r Record) string { return r.Status },
		"course": func(r Record) string { return r.Course },
	},
	Date: func(r Record) time.Time { return r.Date },
	Sorters: map[string]listing.Comparator[Record]{
		"student_name": listing.Strings(func(r Record) string { return r.StudentName }),
		"course":       listing.Strings(func(r Record) string { return r.Course }),
		"date":         listing.Times(func(r Record) time.Time { return r.Date }),
		"status":       listing.Strings(func(r Record) string { return r.Status }),
	},
	DefaultOrdering: core.ParseOrdering("-date,student_name"),
	PageSize:        10,
}

func Summarize(recs []Record) Summary {
	hasStatus := func(status string) func(Record) bool {
		return func(r Record) bool { return r.Status == status }
	}
	s := Summary{
		Total:   len(recs),
		Present: listing.Count(recs, hasStatus(StatusPresent)),
		Absent:  listing.Count(recs, hasStatus(StatusAbsent)),
		Late:    listing.Count(recs, hasStatus(StatusLate)),
		Excused: listing.Count(recs, hasStatus(StatusExcused)),
	}
	s.AttendanceRate = listing.Round(listing.Percent(float64(s.Present+s.Late), float64(s.Total)))
	return s
}

type Service struct {
	*records.Service[Record, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Record, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (nr NewRecord) build() Record {
	now := core.Now()
	date := nr.Date.UTC()
	if nr.Date.IsZero() {
		date = now
	}
	return Record{
		ID:          core.NewID(),
		StudentName: nr.StudentName,
		Course:      nr.Course,
		Date:        date,
		Status:      nr.Status,
		Note:        nr.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (svc *Service) Create(ctx context.Context, nr NewRecord) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}
	return svc.Repo.Create(ctx, nr.build())
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateRecord) (Record, error) {
	if err := ur.Validate(); err != nil {
		return Record{}, err
	}
	r, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	ur.apply(&r)
	r.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, r)
}

// SetStatus marks the selected records with the same status.
func (svc *Service) SetStatus(ctx context.Context, sc StatusChange) ([]Record, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	now := core.Now()
	updated, err := svc.UpdateMany(ctx, sc.IDs, func(r *Record) {
		r.Status = sc.Status
		r.UpdatedAt = now
	})
	return updated, errors.Wrap(err, "marking attendance")
}

var csvCodec = records.CSVCodec[Record]{
	Header: []string{"id", "student_name", "course", "date", "status", "note"},
	Encode: func(r Record) []string {
		return []string{r.ID, r.StudentName, r.Course, r.Date.Format(records.DateLayout), r.Status, r.Note}
	},
	Decode: func(r records.Row) (Record, error) {
		var err error
		nr := NewRecord{
			StudentName: r.String("student_name", ""),
			Course:      r.String("course", ""),
			Status:      r.String("status", StatusPresent),
			Note:        r.String("note", ""),
		}
		if nr.Date, err = r.Time("date", time.Time{}); err != nil {
			return Record{}, err
		}
		if err = nr.Validate(); err != nil {
			return Record{}, err
		}
		return nr.build(), nil
	},
}
